// Package report renders deploy outcomes for the terminal.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"modx/internal/deploy"
	"modx/internal/tooling"
)

var (
	red    = lipgloss.Color("9")
	dim    = lipgloss.Color("8")
	header = lipgloss.NewStyle().Foreground(red).Bold(true).Padding(0, 1)
	cell   = lipgloss.NewStyle().Padding(0, 1)
	emph   = cell.Bold(true)

	successColor = color.New(color.FgHiGreen, color.Bold)
	failureColor = color.New(color.FgHiRed, color.Bold)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(dim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == len(headers)-1:
				return emph
			default:
				return cell
			}
		})
}

// FailureTable lists compile failures with their position.
func FailureTable(failures []tooling.ComponentFailure) string {
	t := newTable("Line", "Column", "Error Description")
	for _, f := range failures {
		t.Row(strconv.Itoa(f.LineNumber), strconv.Itoa(f.ColumnNumber), f.Problem)
	}
	return t.Render()
}

// ErrorTable is the single-column table used for errors raised before the
// async stage, such as a rejected container or member.
func ErrorTable(messages ...string) string {
	t := newTable("Error Description")
	for _, m := range messages {
		t.Row(m)
	}
	return t.Render()
}

type FileError struct {
	File    string
	Message string
}

func FileErrorTable(errs []FileError) string {
	t := newTable("File", "Error Description")
	for _, e := range errs {
		t.Row(e.File, e.Message)
	}
	return t.Render()
}

// Saved is the success line: "Apex Class Successfully Created ✔".
// A zero elapsed omits the timing.
func Saved(label string, mode deploy.Mode, elapsed time.Duration) string {
	msg := fmt.Sprintf("%s Successfully %s ✔", label, mode)
	if elapsed > 0 {
		msg += fmt.Sprintf(". Command execution time: %s seconds", Seconds(elapsed))
	}
	return successColor.Sprint(msg)
}

func Failed(label string) string {
	return failureColor.Sprintf("%s Save Failed ✖", label)
}

// Seconds formats d like "1.234".
func Seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
