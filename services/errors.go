package services

import (
	"errors"
	"fmt"
)

// ErrorType classifies service failures so handlers can map them to
// HTTP status codes without inspecting error strings.
type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError carries a classified error through the service layer.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string, err error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: err}
}

func NewNotFoundError(message string, err error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: err}
}

func NewConflictError(message string, err error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: err}
}

func NewUnauthorizedError(message string, err error) *DomainError {
	return &DomainError{Type: ErrorTypeUnauthorized, Message: message, Err: err}
}

func NewForbiddenError(message string, err error) *DomainError {
	return &DomainError{Type: ErrorTypeForbidden, Message: message, Err: err}
}

func NewInternalError(message string, err error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// WithDetails attaches structured context to the error for API responses.
func (e *DomainError) WithDetails(details map[string]interface{}) *DomainError {
	e.Details = details
	return e
}

func IsValidationError(err error) bool   { return hasType(err, ErrorTypeValidation) }
func IsNotFoundError(err error) bool     { return hasType(err, ErrorTypeNotFound) }
func IsConflictError(err error) bool     { return hasType(err, ErrorTypeConflict) }
func IsUnauthorizedError(err error) bool { return hasType(err, ErrorTypeUnauthorized) }
func IsForbiddenError(err error) bool    { return hasType(err, ErrorTypeForbidden) }

func hasType(err error, t ErrorType) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type == t
	}
	return false
}

// GetErrorType returns the classification of a service error, or
// ErrorTypeInternal for anything unclassified.
func GetErrorType(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrorTypeInternal
}

// GetErrorDetails returns the structured details attached to a service error.
func GetErrorDetails(err error) map[string]interface{} {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// Sentinel failures shared across services. Handlers and tests match on
// these with errors.Is; each is wrapped in a DomainError at the point of
// return so the HTTP layer still gets a classification.
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrProfileNotFound      = errors.New("no marshal profile for account")
	ErrProfilePending       = errors.New("account pending approval")
	ErrProfileSuspended     = errors.New("account suspended")
	ErrEmailTaken           = errors.New("email already registered")
	ErrRankNotFound         = errors.New("taxi rank not found")
	ErrRankInUse            = errors.New("taxi rank has assigned marshals or taxis")
	ErrTaxiNotFound         = errors.New("taxi not found")
	ErrRegistrationTaken    = errors.New("registration already recorded")
	ErrMarshalNotFound      = errors.New("marshal not found")
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrLastAdmin            = errors.New("cannot remove the last active administrator")
	ErrSelfSuspension       = errors.New("cannot suspend your own account")
	ErrRankRequired         = errors.New("a rank assignment is required for this role")
	ErrRankScopeViolation   = errors.New("record belongs to another rank")
	ErrAlreadyApproved      = errors.New("account already approved")
)
