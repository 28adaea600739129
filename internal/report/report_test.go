package report

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"modx/internal/deploy"
	"modx/internal/tooling"
)

func TestFailureTable(t *testing.T) {
	out := FailureTable([]tooling.ComponentFailure{
		{LineNumber: 3, ColumnNumber: 1, Problem: "Unexpected token '}'."},
		{LineNumber: 12, ColumnNumber: 40, Problem: "Variable does not exist: acct"},
	})
	assert.Contains(t, out, "Line")
	assert.Contains(t, out, "Column")
	assert.Contains(t, out, "Error Description")
	assert.Contains(t, out, "Unexpected token '}'.")
	assert.Contains(t, out, "Variable does not exist: acct")

	lines := strings.Split(out, "\n")
	var row string
	for _, l := range lines {
		if strings.Contains(l, "acct") {
			row = l
		}
	}
	assert.Regexp(t, `12\s.*40\s.*Variable`, row)
}

func TestErrorTable(t *testing.T) {
	out := ErrorTable("container creation failed")
	assert.Contains(t, out, "Error Description")
	assert.Contains(t, out, "container creation failed")
	assert.NotContains(t, out, "Line")
}

func TestFileErrorTable(t *testing.T) {
	out := FileErrorTable([]FileError{{File: "hello.cmp", Message: "Markup is malformed"}})
	assert.Contains(t, out, "hello.cmp")
	assert.Contains(t, out, "Markup is malformed")
}

func TestSaved(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	assert.Equal(t, "Apex Class Successfully Created ✔", Saved("Apex Class", deploy.ModeCreated, 0))
	assert.Equal(t, "Trigger Successfully Updated ✔. Command execution time: 1.5 seconds",
		Saved("Trigger", deploy.ModeUpdated, 1500*time.Millisecond))
	assert.Equal(t, "Page Save Failed ✖", Failed("Page"))
}
