package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Authentication and password-recovery failures. Login and reset endpoints
// return these instead of raw repository errors so responses never reveal
// whether an account exists.

func NewInvalidCredentials() error {
	return NewDomainError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, nil)
}

func NewInactivePrincipal() error {
	return NewDomainError("INACTIVE_PRINCIPAL", "account is deactivated", http.StatusUnauthorized, nil)
}

func NewRoleMismatch() error {
	return NewDomainError("ROLE_MISMATCH", "you do not have permission to access this resource", http.StatusForbidden, nil)
}

func NewSessionExpired() error {
	return NewDomainError("SESSION_EXPIRED", "session expired, please log in again", http.StatusUnauthorized, nil)
}

func NewInvalidToken() error {
	return NewDomainError("INVALID_TOKEN", "invalid or expired reset token", http.StatusBadRequest, nil)
}

func NewTokenExpired() error {
	return NewDomainError("TOKEN_EXPIRED", "reset token has expired", http.StatusBadRequest, nil)
}

func NewPasswordPolicyViolation() error {
	return NewDomainError("PASSWORD_POLICY_VIOLATION", "password must be at least 6 characters long", http.StatusBadRequest, nil)
}

func NewPasswordMismatch() error {
	return NewDomainError("PASSWORD_MISMATCH", "passwords do not match", http.StatusBadRequest, nil)
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
	if errors.Is(err, sql.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
