package mdb

import (
	"errors"
	"fmt"
)

// ErrUnknownSubsystem is returned when a code-table file stem names no known subsystem.
var ErrUnknownSubsystem = errors.New("unknown subsystem")

// ErrMissingTemplate marks a line that has a token but no quoted template after it.
var ErrMissingTemplate = errors.New("no quoted template after token")

// ParseError reports a malformed code-table line.
type ParseError struct {
	Path       string
	Line       int
	Text       string
	Underlying error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Underlying, e.Text)
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Underlying, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Underlying
}
