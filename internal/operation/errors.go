package operation

import (
	"errors"
	"fmt"
)

// Sentinel errors for error type checking
var (
	// ErrInvalid indicates the current color, an operand or an argument
	// could not be interpreted.
	ErrInvalid = errors.New("invalid color")

	// ErrOutOfRange indicates a numeric argument outside its domain.
	ErrOutOfRange = errors.New("adjustment out of range")

	// ErrDuplicateAlias indicates two aliases with the same spelling were
	// passed to NewRegistry.
	ErrDuplicateAlias = errors.New("duplicate operation alias")
)

// Error describes a failed operation. It unwraps to ErrInvalid or
// ErrOutOfRange.
type Error struct {
	Op     string
	Value  string
	Reason string
	kind   error
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s %q: %s", e.Op, e.kind, e.Value, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.kind
}

// NewInvalidError creates an error classified as ErrInvalid
func NewInvalidError(op, value, reason string) error {
	return &Error{Op: op, Value: value, Reason: reason, kind: ErrInvalid}
}

// NewOutOfRangeError creates an error classified as ErrOutOfRange
func NewOutOfRangeError(op, value, reason string) error {
	return &Error{Op: op, Value: value, Reason: reason, kind: ErrOutOfRange}
}

// DuplicateAliasError reports an alias declared more than once.
type DuplicateAliasError struct {
	Alias  string
	First  Kind
	Second Kind
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("alias %q declared for both %s and %s", e.Alias, e.First, e.Second)
}

func (e *DuplicateAliasError) Unwrap() error {
	return ErrDuplicateAlias
}
