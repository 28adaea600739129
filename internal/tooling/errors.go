package tooling

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("tooling: record not found")
	ErrUnauthorized  = errors.New("tooling: session expired or invalid")
	ErrNoInstanceURL = errors.New("tooling: instance URL not set")
)

// APIError is a non-2xx response that is not a plain validation failure.
type APIError struct {
	Status int
	Method string
	Path   string
	Errors []FieldError
	Body   string
}

func (e *APIError) Error() string {
	var msgs []string
	for _, fe := range e.Errors {
		if fe.ErrorCode != "" {
			msgs = append(msgs, fe.ErrorCode+": "+fe.Message)
		} else {
			msgs = append(msgs, fe.Message)
		}
	}
	detail := strings.Join(msgs, "; ")
	if detail == "" {
		detail = e.Body
	}
	return fmt.Sprintf("tooling: %s %s returned %d: %s", e.Method, e.Path, e.Status, detail)
}

func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	if e.Status == 404 {
		return ErrNotFound
	}
	return nil
}
