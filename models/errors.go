package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StorageError wraps any failure of the underlying database: unreachable
// medium, I/O error or constraint violation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ValidationError reports a value that failed coercion or an entry
// invariant. Line is the 1-based input line for CSV imports and 0 otherwise.
type ValidationError struct {
	Line   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation")
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// ParseHours coerces a text quantity of hours.
func ParseHours(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, &ValidationError{Field: ColHours, Reason: "is required"}
	}
	hours, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return 0, &ValidationError{Field: ColHours, Reason: fmt.Sprintf("%q is not a number", value)}
	}
	if hours < 0 {
		return 0, &ValidationError{Field: ColHours, Reason: fmt.Sprintf("must not be negative, got %v", hours)}
	}
	return hours, nil
}

// FormatHours renders hours in the shortest form that parses back exactly.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
