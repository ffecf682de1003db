package store

import (
	"errors"
	"fmt"
)

// Row fields reported by ParseError.
const (
	FieldDate  = "date"
	FieldTitle = "title"
)

var (
	// ErrMissingField reports an empty required field.
	ErrMissingField = errors.New("missing required field")
	// ErrUnparseableDate reports a date in no recognized format.
	ErrUnparseableDate = errors.New("unrecognized date format")
	// ErrInvalidDate reports a well-formed date that does not exist on the calendar.
	ErrInvalidDate = errors.New("date out of range")
)

// ParseError describes a row rejected during load.
type ParseError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
