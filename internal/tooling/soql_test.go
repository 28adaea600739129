package tooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectWhere(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		where  map[string]string
		want   string
	}{
		{
			name: "defaults to Id",
			want: "SELECT Id FROM ApexTrigger",
		},
		{
			name:   "sorted keys and namespace",
			fields: []string{"Id", "FilePath"},
			where:  map[string]string{"NamespacePrefix": "acme", "DeveloperName": "hello"},
			want:   "SELECT Id, FilePath FROM ApexTrigger WHERE DeveloperName = 'hello' AND NamespacePrefix = 'acme'",
		},
		{
			name:  "escapes quotes",
			where: map[string]string{"Name": `O'Brien\`},
			want:  `SELECT Id FROM ApexTrigger WHERE Name = 'O\'Brien\\'`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectWhere("ApexTrigger", tt.fields, tt.where))
		})
	}
}
