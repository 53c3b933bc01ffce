// Package errors defines the error taxonomy shared by the command layer
// and its callers: sentinel errors matched with errors.Is, plus a
// ValidationErrors list carrying one message per violated rule.
package errors

import (
	"fmt"
	"strings"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
)

// ValidationErrors collects every business-rule violation found on an
// input. It wraps ErrInvalidInput so callers can match the whole class
// with errors.Is while still enumerating the individual messages.
type ValidationErrors struct {
	Messages []string
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidInput, strings.Join(v.Messages, "; "))
}

func (v *ValidationErrors) Unwrap() error {
	return ErrInvalidInput
}

// Add appends a violation message.
func (v *ValidationErrors) Add(msg string) {
	v.Messages = append(v.Messages, msg)
}

// HasErrors reports whether any rule was violated.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Messages) > 0
}
