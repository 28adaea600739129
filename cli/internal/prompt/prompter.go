package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

type Prompter interface {
	YesNo(msg string, defaultYes bool) (bool, error)
	ConfirmOverwrite(path string) (bool, error)
	Reader() *bufio.Reader
}

type cliPrompter struct {
	in             *bufio.Reader
	out            io.Writer
	nonInteractive bool
}

// NewCLIPrompter asks on out and reads answers from in. A non-interactive
// prompter answers every question with its default.
func NewCLIPrompter(in io.Reader, out io.Writer, nonInteractive bool) Prompter {
	return &cliPrompter{in: bufio.NewReader(in), out: out, nonInteractive: nonInteractive}
}

func (p *cliPrompter) Reader() *bufio.Reader {
	return p.in
}

func (p *cliPrompter) YesNo(msg string, defaultYes bool) (bool, error) {
	if p.nonInteractive {
		return defaultYes, nil
	}
	options := "[y/N]"
	if defaultYes {
		options = "[Y/n]"
	}
	fmt.Fprintf(p.out, "%s %s: ", msg, options)
	input, err := p.in.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		if err != nil && err != io.EOF {
			return false, err
		}
		return defaultYes, nil
	}
	return strings.HasPrefix(input, "y"), nil
}

func (p *cliPrompter) ConfirmOverwrite(path string) (bool, error) {
	return p.YesNo(fmt.Sprintf("Overwrite %s?", path), false)
}
