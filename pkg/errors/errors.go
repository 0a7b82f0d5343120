// Package errors defines custom error types and error handling utilities for the transgate service.
// This package provides structured error types that map to HTTP status codes and public messages.
package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"

	"github.com/turtacn/transgate/pkg/constants"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// AppError represents a structured error with additional metadata
type AppError interface {
	error

	// Code returns the machine-readable error code
	Code() constants.ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns the public message sent to callers
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) AppError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) AppError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

type baseError struct {
	code        constants.ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface
func (e *baseError) Error() string {
	msg := e.message
	if msg == "" {
		msg = e.description
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *baseError) Code() constants.ErrorCode { return e.code }

func (e *baseError) HTTPStatus() int { return e.httpStatus }

func (e *baseError) Description() string { return e.description }

func (e *baseError) Unwrap() error { return e.cause }

// WithCause adds a cause error to the error chain
func (e *baseError) WithCause(cause error) AppError {
	e.cause = cause
	return e
}

// WithMetadata adds additional context metadata
func (e *baseError) WithMetadata(key string, value interface{}) AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

func (e *baseError) Metadata() map[string]interface{} { return e.metadata }

// Is matches on error code so callers can compare against a constructor's result.
func (e *baseError) Is(target error) bool {
	var t *baseError
	if !goerrors.As(target, &t) {
		return false
	}
	return t.code == e.code
}

// ================================================================================
// Error Constructor
// ================================================================================

// NewError creates a new AppError with the specified parameters
func NewError(code constants.ErrorCode, httpStatus int, description string, message string) AppError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrAuthFormat is returned for a missing or malformed Authorization header.
func ErrAuthFormat(message string) AppError {
	return NewError(constants.ErrCodeAuthFormat, http.StatusUnauthorized, constants.MsgUnauthorized, message)
}

// ErrTokenFormat is returned when the bearer token cannot be decoded.
func ErrTokenFormat(message string) AppError {
	return NewError(constants.ErrCodeAuthFormat, http.StatusUnauthorized, constants.MsgInvalidTokenFormat, message)
}

// ErrAuthVerification is returned for signature, issuer, audience, algorithm or expiry failures.
func ErrAuthVerification(message string) AppError {
	return NewError(constants.ErrCodeAuthVerification, http.StatusUnauthorized, constants.MsgUnauthorized, message)
}

// ErrAuthScope is returned when a verified token lacks the required scope.
func ErrAuthScope(message string) AppError {
	return NewError(constants.ErrCodeAuthScope, http.StatusForbidden, constants.MsgInsufficientPermissions, message)
}

// ErrKeyInfrastructure is returned when the signing key could not be resolved.
// The key infrastructure, not the caller, is at fault.
func ErrKeyInfrastructure(message string) AppError {
	return NewError(constants.ErrCodeKeyInfrastructure, http.StatusInternalServerError, constants.MsgFailedToValidateToken, message)
}

// ErrServerConfiguration is returned when tenant or client identity is not configured.
func ErrServerConfiguration(message string) AppError {
	return NewError(constants.ErrCodeServerConfiguration, http.StatusInternalServerError, constants.MsgServerConfiguration, message)
}

// ErrAuthClientInit is returned when the signing key resolver cannot be built.
func ErrAuthClientInit(message string) AppError {
	return NewError(constants.ErrCodeAuthClientInit, http.StatusInternalServerError, constants.MsgAuthClientInit, message)
}

// ErrModerationUnavailable is returned when the content-safety classifier fails.
func ErrModerationUnavailable(message string) AppError {
	return NewError(constants.ErrCodeModerationUnavailable, http.StatusInternalServerError, constants.MsgTranslationFailed, message)
}

// ErrTranslationUnavailable is returned when the translator fails.
func ErrTranslationUnavailable(message string) AppError {
	return NewError(constants.ErrCodeTranslationUnavailable, http.StatusInternalServerError, constants.MsgTranslationFailed, message)
}

// ErrInvalidRequest is returned for request bodies that fail binding.
func ErrInvalidRequest(message string) AppError {
	return NewError(constants.ErrCodeInvalidRequest, http.StatusBadRequest, constants.MsgInvalidRequest, message)
}

// ErrInternal is the catch-all.
func ErrInternal(message string) AppError {
	return NewError(constants.ErrCodeInternal, http.StatusInternalServerError, constants.MsgInternalServerError, message)
}

// ================================================================================
// Helpers
// ================================================================================

// AsAppError extracts an AppError from err's chain, wrapping unknown errors as internal.
func AsAppError(err error) AppError {
	if err == nil {
		return nil
	}
	var appErr AppError
	if goerrors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal("unexpected error").WithCause(err)
}

// HasCode reports whether err's chain contains an AppError with the given code.
func HasCode(err error, code constants.ErrorCode) bool {
	var appErr AppError
	if goerrors.As(err, &appErr) {
		return appErr.Code() == code
	}
	return false
}

// Re-exports so callers need a single errors import.
var (
	Is  = goerrors.Is
	As  = goerrors.As
	New = goerrors.New
)

//Personal.AI order the ending
