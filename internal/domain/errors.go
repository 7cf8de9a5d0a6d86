package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeValidation   ErrorCode = "VALIDATION"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"

	// Errors reported by or about the backend collaborator
	CodeBackend   ErrorCode = "BACKEND_ERROR"
	CodeTransport ErrorCode = "TRANSPORT_ERROR"

	// Client state errors
	CodeBusy             ErrorCode = "BUSY"
	CodeInvalidState     ErrorCode = "INVALID_STATE"
	CodeNoActiveDocument ErrorCode = "NO_ACTIVE_DOCUMENT"
	CodeLLMService       ErrorCode = "LLM_SERVICE_ERROR"
)

// TransportFailureMessage is shown to the user whenever the backend cannot be reached.
const TransportFailureMessage = "An error occurred. Is the backend server running?"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
	Err     error     `json:"-"`
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

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(CodeUnauthorized, message, nil)
}

// NewValidationError reports a request the server rejects as malformed.
func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewForbiddenError(message string) *DomainError {
	return NewError(CodeForbidden, message, nil)
}

func NewConflictError(message string) *DomainError {
	return NewError(CodeConflict, message, nil)
}

// NewBackendError wraps a message the backend returned in a non-2xx response body.
// The message is surfaced to the user verbatim.
func NewBackendError(status int, message string) *DomainError {
	e := NewError(CodeBackend, message, nil)
	e.Status = status
	return e
}

func NewTransportError(err error) *DomainError {
	return NewError(CodeTransport, TransportFailureMessage, err)
}

func NewBusyError(operation string) *DomainError {
	return NewError(CodeBusy, fmt.Sprintf("%s is already in progress", operation), nil)
}

func NewInvalidStateError(message string) *DomainError {
	return NewError(CodeInvalidState, message, nil)
}

func NewNoActiveDocumentError() *DomainError {
	return NewError(CodeNoActiveDocument, "Select or upload a document to begin.", nil)
}

func NewLLMServiceError(err error) *DomainError {
	return NewError(CodeLLMService, "Failed to process with LLM service", err)
}

// CodeOf returns the ErrorCode carried by err, or CodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return CodeValidation
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// IsUnauthorized reports whether err is an authorization failure that must tear the session down.
func IsUnauthorized(err error) bool {
	return CodeOf(err) == CodeUnauthorized
}

// IsBusy reports whether err was produced by a rejected single-flight call.
func IsBusy(err error) bool {
	return CodeOf(err) == CodeBusy
}

// UserMessage returns the text that should be shown to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Error()
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// FieldError is a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// ValidationErrors collects every rule a form failed. It is reported inline and never
// results in a backend round-trip.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, " ")
}

func NewFieldError(field, message string) FieldError {
	return FieldError{Field: field, Message: message}
}

func NewMissingFieldError(field string) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf("%s is required.", field)}
}
