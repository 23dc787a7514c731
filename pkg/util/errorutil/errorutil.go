package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicateEmail   = "DUPLICATE_EMAIL"
	CodeInternal         = "INTERNAL_ERROR"
)

// DuplicateEmailMessage is returned to clients when a user email is already registered.
const DuplicateEmailMessage = "Ya existe un usuario con este correo electrónico"

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
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

// FieldIssue is a single field-level validation message.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError builds a 400 error carrying one issue per invalid field.
func NewValidationError(issues ...FieldIssue) error {
	return NewDomainError(CodeValidationFailed, "Validation error", http.StatusBadRequest, map[string]any{
		"fields": issues,
	})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewDuplicateEmail(email string) error {
	return NewDomainError(CodeDuplicateEmail, DuplicateEmailMessage, http.StatusBadRequest, map[string]any{
		"email": email,
	})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// FieldIssues returns the validation issues carried by err, if any.
func FieldIssues(err error) []FieldIssue {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != CodeValidationFailed {
		return nil
	}
	issues, _ := domainErr.Details["fields"].([]FieldIssue)
	return issues
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}
