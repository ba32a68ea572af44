package ir

import (
	"errors"
	"fmt"
)

// Error codes reported by the CLI for structural errors.
const (
	ErrCodeUnboundLabel       = "E101"
	ErrCodeTypeMismatch       = "E102"
	ErrCodeUnsupportedType    = "E103"
	ErrCodeUndeclaredVariable = "E104"
)

// UnboundLabelError reports a Break whose Label is not owned by a Loop that
// lexically encloses it, or a Loop closed against the wrong Label.
type UnboundLabelError struct {
	Label string
	ID    int
}

func (e *UnboundLabelError) Error() string {
	return fmt.Sprintf("break to label %q (#%d) outside its loop", e.Label, e.ID)
}

// Code returns ErrCodeUnboundLabel.
func (e *UnboundLabelError) Code() string { return ErrCodeUnboundLabel }

// TypeMismatchError reports operands or values whose kinds disagree.
type TypeMismatchError struct {
	// Where names the construct being checked ("add", "assign result", ...).
	Where string
	Want  Kind
	Got   Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: kind mismatch: want %v, got %v", e.Where, e.Want, e.Got)
}

// Code returns ErrCodeTypeMismatch.
func (e *TypeMismatchError) Code() string { return ErrCodeTypeMismatch }

// UnsupportedTypeError reports a kind with no registered operation table.
// Name carries the unparsed kind name when the kind could not be parsed.
type UnsupportedTypeError struct {
	Kind Kind
	Name string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unsupported numeric kind %q", e.Name)
	}
	return fmt.Sprintf("unsupported numeric kind %v", e.Kind)
}

// Code returns ErrCodeUnsupportedType.
func (e *UnsupportedTypeError) Code() string { return ErrCodeUnsupportedType }

// UndeclaredVariableError reports a variable used outside the scope that
// declares it.
type UndeclaredVariableError struct {
	Name string
	ID   int
}

func (e *UndeclaredVariableError) Error() string {
	return fmt.Sprintf("variable %q (#%d) is not declared in an enclosing scope", e.Name, e.ID)
}

// Code returns ErrCodeUndeclaredVariable.
func (e *UndeclaredVariableError) Code() string { return ErrCodeUndeclaredVariable }

// IsUnboundLabel reports whether err wraps an UnboundLabelError.
func IsUnboundLabel(err error) bool {
	var target *UnboundLabelError
	return errors.As(err, &target)
}

// IsTypeMismatch reports whether err wraps a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	var target *TypeMismatchError
	return errors.As(err, &target)
}

// IsUnsupportedType reports whether err wraps an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var target *UnsupportedTypeError
	return errors.As(err, &target)
}

// IsUndeclaredVariable reports whether err wraps an UndeclaredVariableError.
func IsUndeclaredVariable(err error) bool {
	var target *UndeclaredVariableError
	return errors.As(err, &target)
}

// ErrorCode returns the CLI error code carried by err, or "" when err is not
// a structural IR error.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}
