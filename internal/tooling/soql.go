package tooling

import (
	"sort"
	"strings"
)

var soqlEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Quote renders s as a SOQL string literal.
func Quote(s string) string {
	return "'" + soqlEscaper.Replace(s) + "'"
}

// SelectWhere builds "SELECT f1, f2 FROM sobject WHERE k1 = 'v1' AND ...".
// Keys are emitted in sorted order. An empty value compares against null,
// which is how an org without a namespace stores NamespacePrefix.
func SelectWhere(sobject string, fields []string, where map[string]string) string {
	if len(fields) == 0 {
		fields = []string{"Id"}
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(fields, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(sobject)

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(k)
		if v := where[k]; v == "" {
			sb.WriteString(" = null")
		} else {
			sb.WriteString(" = ")
			sb.WriteString(Quote(v))
		}
	}
	return sb.String()
}
