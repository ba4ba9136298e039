package foundation

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/salonsite/internal/foundation/errors"
)

// Validator represents a validation function.
type Validator[T any] func(T) ValidationResult

// ValidationResult contains the result of a validation operation.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// FieldError represents a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("field '%s': %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// Valid creates a successful validation result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid creates a failed validation result with errors.
func Invalid(errs ...FieldError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// NewValidationError creates a validation error.
func NewValidationError(field, code, message string) FieldError {
	return FieldError{Field: field, Code: code, Message: message}
}

// Combine merges two validation results.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if vr.Valid && other.Valid {
		return Valid()
	}
	all := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	all = append(all, vr.Errors...)
	all = append(all, other.Errors...)
	return Invalid(all...)
}

// ToError converts a validation result to a classified validation error if invalid.
func (vr ValidationResult) ToError() error {
	if vr.Valid {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		messages = append(messages, err.Error())
	}
	return errors.ValidationError(strings.Join(messages, "; ")).Build()
}

// MatchesPattern validates that a non-empty string matches re. Empty strings pass.
func MatchesPattern(field string, re *regexp.Regexp, message string) Validator[string] {
	return func(value string) ValidationResult {
		if value == "" || re.MatchString(value) {
			return Valid()
		}
		return Invalid(NewValidationError(field, "pattern", message))
	}
}

// MaxLength validates that a string has at most n runes.
func MaxLength(field string, n int) Validator[string] {
	return func(value string) ValidationResult {
		if len([]rune(value)) <= n {
			return Valid()
		}
		return Invalid(NewValidationError(field, "max_length", fmt.Sprintf("must be at most %d characters", n)))
	}
}
