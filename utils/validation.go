package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// tagMessages maps validator tags to the message format for that tag. Formats
// with two verbs receive the field name and the tag parameter.
var tagMessages = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email",
	"uuid":     "%s must be a valid UUID",
	"min":      "%s must be at least %s",
	"max":      "%s must be at most %s",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than or equal to %s",
	"lt":       "%s must be less than %s",
	"lte":      "%s must be less than or equal to %s",
	"oneof":    "%s must be one of: %s",
}

// ValidationError carries per-field messages for a failed request payload.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateStruct runs the struct's validate tags and converts any failures
// into a *ValidationError.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	return NewValidationError(fieldErrs)
}

// NewValidationError renders one message per failed field.
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	format, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed validation on the %q rule", fe.Field(), fe.Tag())
	}
	if strings.Count(format, "%s") == 2 {
		return fmt.Sprintf(format, fe.Field(), fe.Param())
	}
	return fmt.Sprintf(format, fe.Field())
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationFields returns the per-field messages, or nil for other errors.
func GetValidationFields(err error) map[string]string {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return ve.Fields
}

// ValidateUUID checks that s parses as a UUID.
func ValidateUUID(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("invalid UUID format: %s", s)
	}
	return nil
}

// ValidateEmail checks the address against a simple pattern; full RFC
// compliance is not attempted.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateRequired rejects empty strings with a field-named error.
func ValidateRequired(value string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}
