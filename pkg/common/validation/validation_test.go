package validation

import (
	"strings"
	"testing"

	"github.com/vnykmshr/weave/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name      string
		module    string
		field     string
		value     int
		wantError bool
	}{
		{"positive value", "test", "count", 10, false},
		{"positive value 1", "test", "count", 1, false},
		{"zero value", "test", "count", 0, true},
		{"negative value", "test", "count", -1, true},
		{"large positive", "test", "count", 1000000, false},
		{"large negative", "test", "count", -1000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive(tt.module, tt.field, tt.value)

			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name      string
		module    string
		field     string
		value     float64
		wantError bool
	}{
		{"positive value", "test", "rate", 10.5, false},
		{"zero value", "test", "rate", 0.0, false},
		{"negative value", "test", "rate", -1.5, true},
		{"small positive", "test", "rate", 0.001, false},
		{"small negative", "test", "rate", -0.001, true},
		{"large positive", "test", "rate", 99999.99, false},
		{"large negative", "test", "rate", -99999.99, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative(tt.module, tt.field, tt.value)

			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}
		})
	}
}

func TestValidateMax(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		max       int
		wantError bool
	}{
		{"below max", 4, 8, false},
		{"at max", 8, 8, false},
		{"above max", 9, 8, true},
		{"negative", -1, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMax("test", "threads", tt.value, tt.max)

			if tt.wantError {
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateOneOf(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{"exact match", "debug", false},
		{"case insensitive", "WARN", false},
		{"unknown", "verbose", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOneOf("logx", "level", tt.value, "debug", "info", "warn")

			if tt.wantError {
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %v", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateNotEmpty(t *testing.T) {
	tests := []struct {
		name      string
		module    string
		field     string
		value     string
		wantError bool
	}{
		{"non-empty string", "test", "name", "value", false},
		{"single char", "test", "name", "a", false},
		{"whitespace", "test", "name", " ", false}, // Whitespace is not empty
		{"empty string", "test", "name", "", true},
		{"long string", "test", "name", "this is a long value", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNotEmpty(tt.module, tt.field, tt.value)

			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			}
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	t.Run("ValidatePositive error details", func(t *testing.T) {
		err := ValidatePositive("threading", "threads", -5)
		if err == nil {
			t.Fatal("expected error")
		}

		var valErr *errors.ValidationError
		if !errors.IsValidationError(err) {
			t.Fatal("expected ValidationError")
		}

		// Extract the validation error
		if e, ok := err.(*errors.ValidationError); ok {
			valErr = e
		} else {
			t.Fatal("could not cast to ValidationError")
		}

		if valErr.Module != "threading" {
			t.Errorf("Module = %q, want %q", valErr.Module, "threading")
		}
		if valErr.Field != "threads" {
			t.Errorf("Field = %q, want %q", valErr.Field, "threads")
		}
		if valErr.Value != -5 {
			t.Errorf("Value = %v, want %v", valErr.Value, -5)
		}
		if valErr.Reason != "must be positive" {
			t.Errorf("Reason = %q, want %q", valErr.Reason, "must be positive")
		}
		if valErr.Hint != "value must be greater than 0" {
			t.Errorf("Hint = %q, want %q", valErr.Hint, "value must be greater than 0")
		}
	})

	t.Run("ValidateNonNegative error details", func(t *testing.T) {
		err := ValidateNonNegative("simpleasync", "delay", -10.5)
		if err == nil {
			t.Fatal("expected error")
		}

		var valErr *errors.ValidationError
		if e, ok := err.(*errors.ValidationError); ok {
			valErr = e
		} else {
			t.Fatal("could not cast to ValidationError")
		}

		if valErr.Reason != "cannot be negative" {
			t.Errorf("Reason = %q, want %q", valErr.Reason, "cannot be negative")
		}
		if valErr.Hint != "use 0 or a positive value" {
			t.Errorf("Hint = %q, want %q", valErr.Hint, "use 0 or a positive value")
		}
	})

	t.Run("ValidateNotEmpty error details", func(t *testing.T) {
		err := ValidateNotEmpty("config", "key", "")
		if err == nil {
			t.Fatal("expected error")
		}

		var valErr *errors.ValidationError
		if e, ok := err.(*errors.ValidationError); ok {
			valErr = e
		} else {
			t.Fatal("could not cast to ValidationError")
		}

		if valErr.Reason != "cannot be empty" {
			t.Errorf("Reason = %q, want %q", valErr.Reason, "cannot be empty")
		}
		if valErr.Hint != "provide a non-empty key" {
			t.Errorf("Hint = %q, want contains 'key'", valErr.Hint)
		}
	})
}

func TestValidationErrorWrapping(t *testing.T) {
	// All validation errors should wrap ErrInvalidConfiguration
	t.Run("errors wrap ErrInvalidConfiguration", func(t *testing.T) {
		testCases := []struct {
			name string
			err  error
		}{
			{"ValidatePositive", ValidatePositive("test", "field", -1)},
			{"ValidateNonNegative", ValidateNonNegative("test", "field", -1.0)},
			{"ValidateMax", ValidateMax("test", "field", 9, 8)},
			{"ValidateOneOf", ValidateOneOf("test", "field", "x", "a", "b")},
			{"ValidateNotEmpty", ValidateNotEmpty("test", "field", "")},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				if tc.err == nil {
					t.Fatal("expected error")
				}
				if !errors.IsValidationError(tc.err) {
					t.Error("error should be a ValidationError")
				}
				// Check if it wraps ErrInvalidConfiguration
				var valErr *errors.ValidationError
				if ok := errors.IsValidationError(tc.err); ok {
					if e, ok := tc.err.(*errors.ValidationError); ok {
						valErr = e
						if wrapped := valErr.Unwrap(); wrapped != errors.ErrInvalidConfiguration {
							t.Errorf("should unwrap to ErrInvalidConfiguration, got %v", wrapped)
						}
					}
				}
			})
		}
	})
}

func TestConfigAndBridgeFields(t *testing.T) {
	levels := []string{"trace", "debug", "info", "warn", "warning", "error"}

	tests := []struct {
		name     string
		err      error
		wantErr  bool
		contains []string
	}{
		{"pool.threads at limit", ValidateMax("config", "pool.threads", 256, 256), false, nil},
		{"pool.threads over limit", ValidateMax("config", "pool.threads", 257, 256), true,
			[]string{"config: invalid pool.threads=257", "at most 256"}},
		{"log.level upper case", ValidateOneOf("config", "log.level", "WARN", levels...), false, nil},
		{"log.level unknown", ValidateOneOf("config", "log.level", "loud", levels...), true,
			[]string{"log.level=loud", "use one of: trace, debug, info, warn, warning, error"}},
		{"bridge channel set", ValidateNotEmpty("bridge", "channel", "weave.events"), false, nil},
		{"bridge channel empty", ValidateNotEmpty("bridge", "channel", ""), true,
			[]string{"bridge: invalid channel=", "provide a non-empty channel"}},
		{"bridge.db negative", ValidateNonNegative("config", "bridge.db", -1), true,
			[]string{"bridge.db=-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", tt.err, tt.wantErr)
			}
			if tt.err == nil {
				return
			}
			if !errors.IsValidationError(tt.err) {
				t.Errorf("expected ValidationError, got %T", tt.err)
			}
			for _, part := range tt.contains {
				if !strings.Contains(tt.err.Error(), part) {
					t.Errorf("error %q should contain %q", tt.err.Error(), part)
				}
			}
		})
	}
}
