package diag

import (
	"errors"
	"fmt"

	"wingstl/internal/source"
)

// Category sentinels. Every *Error matches exactly one of them via errors.Is.
var (
	ErrInputFormat = errors.New("input format error")
	ErrGeometry    = errors.New("geometry validation error")
	ErrResource    = errors.New("resource error")
	ErrInternal    = errors.New("internal invariant violated")
)

// Error carries a single diagnostic across API boundaries.
// The diagnostic keeps the code, message and source span for rendering.
type Error struct {
	Diag Diagnostic
	// Cause is the underlying OS or library error, if any.
	Cause error
}

// Errorf builds an error-severity *Error without a source location.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Diag: NewError(code, source.NoSpan, fmt.Sprintf(format, args...))}
}

// Wrap attaches cause to a new *Error with the given code.
func Wrap(code Code, cause error, msg string) *Error {
	return &Error{Diag: NewError(code, source.NoSpan, msg), Cause: cause}
}

// WithHint sets the suggestion rendered under the diagnostic.
func (e *Error) WithHint(hint string) *Error {
	e.Diag.Hint = hint
	return e
}

// At moves the diagnostic onto a source location.
func (e *Error) At(sp source.Span) *Error {
	e.Diag.Primary = sp
	return e
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Diag.Code.ID(), e.Diag.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

func (e *Error) Code() Code {
	return e.Diag.Code
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the category sentinel derived from the code.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInputFormat:
		return e.Diag.Code.Category() == CatInputFormat
	case ErrGeometry:
		return e.Diag.Code.Category() == CatGeometry
	case ErrResource:
		return e.Diag.Code.Category() == CatResource
	case ErrInternal:
		return e.Diag.Code.Category() == CatInternal
	}
	return false
}

// AsDiagnostic extracts the diagnostic from err when it wraps a *Error.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Diag, true
	}
	return Diagnostic{}, false
}

// CategoryOf returns the category of err, or CatUnknown for foreign errors.
func CategoryOf(err error) Category {
	var de *Error
	if errors.As(err, &de) {
		return de.Diag.Code.Category()
	}
	return CatUnknown
}
