package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrTokenExpired       = errors.New("token expired")
	ErrDependency         = errors.New("dependency failure")
)

// Error codes returned to clients
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeDependency         = "DEPENDENCY_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

// FieldError describes one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// AppError represents application error with HTTP status
type AppError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

// Unwrap exposes the domain sentinel so errors.Is works across layers.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, ErrInvalidInput)
}

func Validation(message string, fields []FieldError) *AppError {
	e := NewAppError(http.StatusBadRequest, CodeValidation, message, ErrInvalidInput)
	e.Fields = fields
	return e
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func InvalidCredentials(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeInvalidCredentials, message, ErrInvalidCredentials)
}

func EmailNotVerified(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeEmailNotVerified, message, ErrEmailNotVerified)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

// Conflict keeps status 400: clients of the original API match on it.
func Conflict(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeConflict, message, ErrAlreadyExists)
}

func AlreadyVerified(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeConflict, message, ErrAlreadyVerified)
}

func Expired(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeTokenExpired, message, ErrTokenExpired)
}

// Dependency wraps a failure of an external collaborator such as the mail relay.
func Dependency(message string, cause error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeDependency, message, errors.Join(ErrDependency, cause))
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// From converts any error into an AppError, mapping bare sentinels to their
// default presentation.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound("resource not found")
	case errors.Is(err, ErrAlreadyExists):
		return Conflict("resource already exists")
	case errors.Is(err, ErrAlreadyVerified):
		return AlreadyVerified("email is already verified")
	case errors.Is(err, ErrInvalidInput):
		return BadRequest("invalid input")
	case errors.Is(err, ErrInvalidCredentials):
		return InvalidCredentials("invalid email or password")
	case errors.Is(err, ErrEmailNotVerified):
		return EmailNotVerified("please verify your email first")
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized("unauthorized")
	case errors.Is(err, ErrTokenExpired):
		return Expired("token has expired")
	case errors.Is(err, ErrDependency):
		return NewAppError(http.StatusInternalServerError, CodeDependency, "upstream dependency failed", err)
	}
	return InternalError(err)
}
