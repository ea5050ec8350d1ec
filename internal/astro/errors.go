package astro

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is against the typed errors below.
var (
	ErrFormat     = errors.New("format error")
	ErrValidation = errors.New("validation error")
	ErrDomain     = errors.New("domain error")
	ErrLookup     = errors.New("lookup error")
)

// FormatError reports a date or time string that could not be parsed.
type FormatError struct {
	Field string // "date" or "time"
	Value string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func (e *FormatError) Unwrap() error { return e.Err }

// ValidationError reports an out-of-range or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DomainError reports degenerate geometry, such as an observer at a pole or a
// body at the zenith, where a result would otherwise be NaN.
type DomainError struct {
	Op     string
	Detail string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Detail)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// LookupError reports a missing table entry. For the zodiac table this is an
// invariant violation since the intervals cover every day of the year.
type LookupError struct {
	Table string
	Key   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: no entry for %q", e.Table, e.Key)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// FieldOf returns the offending input field for format and validation errors,
// or "" for any other error.
func FieldOf(err error) string {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Field
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}
