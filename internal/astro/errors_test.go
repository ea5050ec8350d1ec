package astro

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsMatchSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"format", &FormatError{Field: "date", Value: "x"}, ErrFormat},
		{"validation", &ValidationError{Field: "scale_m", Message: "must be positive"}, ErrValidation},
		{"domain", &DomainError{Op: "horizontal transform", Detail: "pole"}, ErrDomain},
		{"lookup", &LookupError{Table: "zodiac", Key: "400"}, ErrLookup},
	}
	sentinels := []error{ErrFormat, ErrValidation, ErrDomain, ErrLookup}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("compute: %w", tt.err)
			for _, s := range sentinels {
				if got := errors.Is(wrapped, s); got != (s == tt.want) {
					t.Errorf("errors.Is(%v, %v) = %v", wrapped, s, got)
				}
			}
		})
	}
}

func TestFieldOf(t *testing.T) {
	if got := FieldOf(fmt.Errorf("wrap: %w", &FormatError{Field: "time"})); got != "time" {
		t.Errorf("FieldOf(format) = %q, want time", got)
	}
	if got := FieldOf(&ValidationError{Field: "latitude"}); got != "latitude" {
		t.Errorf("FieldOf(validation) = %q, want latitude", got)
	}
	if got := FieldOf(&DomainError{Op: "x"}); got != "" {
		t.Errorf("FieldOf(domain) = %q, want empty", got)
	}
	if got := FieldOf(nil); got != "" {
		t.Errorf("FieldOf(nil) = %q, want empty", got)
	}
}

func TestFormatErrorUnwrap(t *testing.T) {
	inner := errors.New("parse failure")
	err := &FormatError{Field: "date", Value: "2024-13-01", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("FormatError does not unwrap to its cause")
	}
}
