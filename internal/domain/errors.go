package domain

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches on code and message so wrapped sentinel errors compare equal.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrInvalidArticle        = NewDomainError(ErrCodeValidation, "invalid article")
	ErrInvalidCategory       = NewDomainError(ErrCodeValidation, "invalid category")
	ErrInvalidQuery          = NewDomainError(ErrCodeValidation, "invalid query")
	ErrCategoryAlreadyExists = NewDomainError(ErrCodeValidation, "category name already exists")
)

// Not found errors
var (
	ErrArticleNotFound  = NewDomainError(ErrCodeNotFound, "article not found")
	ErrCategoryNotFound = NewDomainError(ErrCodeNotFound, "category not found")
)

// NewValidationError wraps field-level validation failures under a validation sentinel.
func NewValidationError(sentinel *DomainError, fields validation.Errors) *DomainError {
	return NewDomainErrorWithCause(ErrCodeValidation, sentinel.Message, fields)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// FieldErrors extracts per-field messages from a validation error, if any.
func FieldErrors(err error) map[string]string {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return nil
	}
	out := make(map[string]string, len(fields))
	for name, ferr := range fields {
		if ferr != nil {
			out[name] = ferr.Error()
		}
	}
	return out
}

func hasCode(err error, code string) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}
