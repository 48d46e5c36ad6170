package codec

import (
	"errors"
	"fmt"
)

// ErrInvalidField is matched by every FieldError
var ErrInvalidField = errors.New("invalid field")

var (
	errEmptyID          = errors.New("id must not be empty")
	errReservedChar     = errors.New("contains the delimiter or a line break")
	errNegativePrice    = errors.New("must not be negative")
	errNonFinitePrice   = errors.New("must be a finite number")
	errNegativeQuantity = errors.New("must not be negative")
)

// ParseError is returned by Decode for a malformed line
type ParseError struct {
	Field string // empty when the line itself is malformed
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed line %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError is returned by Encode and Validate for a book that cannot be
// written as a single line
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %v", e.Field, e.Err)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
