package rope

import (
	"errors"
	"fmt"
)

// Errors returned by rope operations.
var (
	ErrOutOfRange       = errors.New("position out of range")
	ErrInvalidRange     = errors.New("invalid range")
	ErrInsufficientInfo = errors.New("position carries neither an offset nor a line and column")
	ErrInvalidConfig    = errors.New("invalid rope configuration")
	ErrInvariant        = errors.New("rope invariant violated")
)

// RangeError reports a position outside the text it addresses.
type RangeError struct {
	Op  string   // operation that failed
	Pos Position // offending position
	Len int      // symbols in the addressed text
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("rope: %s: %v outside text of %d symbols", e.Op, e.Pos, e.Len)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// InvariantError reports a failed structural audit.
type InvariantError struct {
	Check  string // audit that failed: heights, balance, links, lengths, tables, leaves
	Path   string // node path from the root, "o" followed by l/r steps
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("rope: %s check failed at %s: %s", e.Check, e.Path, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
