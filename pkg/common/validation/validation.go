// Package validation provides common validation utilities for the weave packages.
package validation

import (
	"strconv"
	"strings"

	werrors "github.com/vnykmshr/weave/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return werrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegative validates that a numeric value is non-negative (>= 0).
// Returns a ValidationError if the value is negative.
func ValidateNonNegative(module, field string, value float64) error {
	if value < 0 {
		return werrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidateMax validates that an integer value does not exceed max.
func ValidateMax(module, field string, value, max int) error {
	if value > max {
		return werrors.NewValidationError(module, field, value, "too large").
			WithHint("use a value of at most " + strconv.Itoa(max))
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return werrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}

// ValidateOneOf validates that value is one of the allowed strings.
// Comparison is case-insensitive.
func ValidateOneOf(module, field, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return nil
		}
	}
	return werrors.NewValidationError(module, field, value, "not supported").
		WithHint("use one of: " + strings.Join(allowed, ", "))
}
