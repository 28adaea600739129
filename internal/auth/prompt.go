package auth

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// PromptToken reads a token from the terminal on fd with echo disabled.
func PromptToken(fd int, out io.Writer) (string, error) {
	if !term.IsTerminal(fd) {
		return "", ErrNoTerminal
	}
	fmt.Fprint(out, "Access token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return cleanToken(string(raw))
}

// ReadToken takes the first line of r, for tokens piped on stdin.
func ReadToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return cleanToken(line)
}

func cleanToken(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyToken
	}
	return s, nil
}
