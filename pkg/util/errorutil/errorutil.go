package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/cinemahub/cinema-service/internal/auth"
	"github.com/cinemahub/cinema-service/internal/service"
)

// DomainError standardizes application errors at the HTTP boundary.
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

// ToDomainError converts the service's typed failures to DomainError. The
// service never produces response codes itself; the mapping lives here.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	switch {
	case errors.Is(err, service.ErrAuthentication):
		return NewDomainError("UNAUTHORIZED", "invalid email or password", http.StatusUnauthorized, nil)
	case errors.Is(err, service.ErrAccountInactive):
		return NewDomainError("ACCOUNT_INACTIVE", "user account is not activated", http.StatusForbidden, nil)
	case errors.Is(err, service.ErrAccountAlreadyActive):
		return NewDomainError("ALREADY_ACTIVE", "user account is already active", http.StatusBadRequest, nil)
	case errors.Is(err, service.ErrTokenNotFound):
		return NewDomainError("TOKEN_NOT_FOUND", "token not found", http.StatusUnauthorized, nil)
	case errors.Is(err, service.ErrUserNotFound):
		return NewDomainError("USER_NOT_FOUND", "user not found", http.StatusNotFound, nil)
	case errors.Is(err, service.ErrEmailTaken):
		return NewDomainError("EMAIL_TAKEN", "a user with this email already exists", http.StatusConflict, nil)
	case errors.Is(err, service.ErrPasswordPolicy):
		return NewDomainError("WEAK_PASSWORD", err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, service.ErrTooManyLoginAttempts):
		return NewDomainError("TOO_MANY_ATTEMPTS", "too many login attempts", http.StatusTooManyRequests, nil)
	case errors.Is(err, auth.ErrTokenExpired):
		return NewDomainError("TOKEN_EXPIRED", "token has expired", http.StatusBadRequest, nil)
	case errors.Is(err, auth.ErrInvalidToken):
		return NewDomainError("TOKEN_INVALID", "invalid token", http.StatusBadRequest, nil)
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
