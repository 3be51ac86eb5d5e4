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
	// Loader errors. Any of these makes starting a quiz impossible.
	CodeLoad                ErrorCode = "LOAD_ERROR"
	CodeFetchFailed         ErrorCode = "FETCH_FAILED"
	CodeFetchTimeout        ErrorCode = "FETCH_TIMEOUT"
	CodeUnsupportedEncoding ErrorCode = "UNSUPPORTED_ENCODING"
	CodeEmptyBank           ErrorCode = "EMPTY_BANK"
	CodeParse               ErrorCode = "PARSE_ERROR"

	// Caller input errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Session errors
	CodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"
	CodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	CodeInvalidSnapshot   ErrorCode = "INVALID_SNAPSHOT"

	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another *DomainError by code, so errors.Is(err, &DomainError{Code: CodeEmptyBank}) works.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context,omitempty"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
		Context: e.Context,
	})
}

// WithContext attaches a detail to the error and returns it.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewLoadError(message string, cause error) *DomainError {
	return NewError(CodeLoad, message, cause)
}

func NewFetchError(location string, cause error) *DomainError {
	return NewError(CodeFetchFailed, fmt.Sprintf("failed to fetch question bank from %s", location), cause).
		WithContext("location", location)
}

func NewFetchTimeoutError(location string, cause error) *DomainError {
	return NewError(CodeFetchTimeout, fmt.Sprintf("timed out fetching question bank from %s", location), cause).
		WithContext("location", location)
}

func NewUnsupportedEncodingError(label string) *DomainError {
	return NewError(CodeUnsupportedEncoding, fmt.Sprintf("unsupported text encoding: %q", label), nil)
}

func NewEmptyBankError(source string, cause error) *DomainError {
	return NewError(CodeEmptyBank, fmt.Sprintf("no playable questions in %s", source), cause).
		WithContext("source", source)
}

// NewParseError reports input that could not be read as question records.
// cause is usually the ParseErrors list or a decoder error.
func NewParseError(source string, cause error) *DomainError {
	return NewError(CodeParse, fmt.Sprintf("malformed question records in %s", source), cause).
		WithContext("source", source)
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidation, message, nil)
}

func NewProtocolViolation(operation string, state string) *DomainError {
	return NewError(CodeProtocolViolation, fmt.Sprintf("%s is not allowed while the session is %s", operation, state), nil).
		WithContext("operation", operation).
		WithContext("state", state)
}

func NewSessionNotFoundError(id string) *DomainError {
	return NewError(CodeSessionNotFound, fmt.Sprintf("session not found: %s", id), nil)
}

func NewInvalidSnapshotError(message string) *DomainError {
	return NewError(CodeInvalidSnapshot, message, nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

// CodeOf returns the code of the first DomainError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsLoadError reports whether err prevents a bank from being loaded.
func IsLoadError(err error) bool {
	switch CodeOf(err) {
	case CodeLoad, CodeFetchFailed, CodeFetchTimeout, CodeUnsupportedEncoding, CodeEmptyBank, CodeParse:
		return true
	}
	return false
}

func IsProtocolViolation(err error) bool {
	return CodeOf(err) == CodeProtocolViolation
}

// IsValidation reports whether err is a recoverable caller-input error.
func IsValidation(err error) bool {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	switch CodeOf(err) {
	case CodeValidation, CodeMissingField, CodeInvalidFormat, CodeOutOfRange:
		return true
	}
	return false
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors is a list of field errors reported together.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) FieldError {
	return FieldError{
		Field:   field,
		Code:    CodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidFormatError(field string, value interface{}) FieldError {
	return FieldError{
		Field:   field,
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("%s has an invalid format", field),
		Value:   value,
	}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) FieldError {
	msg := fmt.Sprintf("%s must be at least %d", field, min)
	if max > 0 {
		msg = fmt.Sprintf("%s must be between %d and %d", field, min, max)
	}
	return FieldError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: msg,
		Value:   value,
	}
}
