// Package errors defines the structured error taxonomy returned by the
// application services and mapped to HTTP statuses at the API boundary.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a category of failure.
type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodePermissionDenied  Code = "PERMISSION_DENIED"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeInvalidToken      Code = "INVALID_TOKEN"
	CodeValidationFailed  Code = "VALIDATION_FAILED"
	CodeConflict          Code = "CONFLICT"
	CodeUpstreamFailure   Code = "UPSTREAM_FAILURE"
	CodeInternal          Code = "INTERNAL"
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
)

// ServiceError is the structured result for any failed operation. Services
// return these instead of raw errors so the HTTP layer can produce a stable
// status and body without string matching.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *ServiceError) Unwrap() error { return e.Err }

// WithDetails attaches a key/value detail and returns the error for chaining.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NotFound indicates the entity id does not resolve to a live row.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// PermissionDenied indicates the caller failed an authorization check.
func PermissionDenied(message string) *ServiceError {
	return &ServiceError{Code: CodePermissionDenied, Message: message, HTTPStatus: http.StatusForbidden}
}

// Unauthorized indicates a missing or unusable credential.
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// InvalidToken indicates a credential that failed verification.
func InvalidToken(err error) *ServiceError {
	return &ServiceError{Code: CodeInvalidToken, Message: "invalid token", HTTPStatus: http.StatusUnauthorized, Err: err}
}

// ValidationFailed indicates an input shape or range violation.
func ValidationFailed(message string) *ServiceError {
	return &ServiceError{Code: CodeValidationFailed, Message: message, HTTPStatus: http.StatusBadRequest}
}

// Conflict indicates a uniqueness violation that is not resolved by upsert.
func Conflict(message string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// Upstream indicates a collaborator (image store, payment gateway) failed.
func Upstream(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeUpstreamFailure, Message: message, HTTPStatus: http.StatusBadGateway, Err: err}
}

// Internal indicates an unexpected failure inside the application.
func Internal(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// RateLimitExceeded indicates the caller exhausted its request budget.
func RateLimitExceeded(limit int, window string) *ServiceError {
	e := &ServiceError{Code: CodeRateLimitExceeded, Message: "rate limit exceeded", HTTPStatus: http.StatusTooManyRequests}
	return e.WithDetails("limit", limit).WithDetails("window", window)
}

// GetServiceError returns the ServiceError within err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	svcErr := GetServiceError(err)
	return svcErr != nil && svcErr.Code == code
}
