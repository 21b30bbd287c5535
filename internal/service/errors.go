package service

import "errors"

// Sentinel errors returned by the auth flows. The HTTP boundary maps each
// one to a response code; the service itself never produces status codes.
var (
	// ErrAuthentication is returned for an unknown email or wrong password.
	// The two cases are deliberately indistinguishable.
	ErrAuthentication = errors.New("invalid email or password")

	// ErrAccountInactive is returned when credentials are correct but the
	// account has not been activated. Only revealed after a password match.
	ErrAccountInactive = errors.New("user account is not activated")

	// ErrAccountAlreadyActive rejects activation of an active account.
	ErrAccountAlreadyActive = errors.New("user account is already active")

	// ErrTokenNotFound means a token was well-formed but absent from the
	// store: revoked, consumed, or never issued.
	ErrTokenNotFound = errors.New("token not found")

	// ErrUserNotFound means the user referenced by a token no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken rejects registration with an already used email.
	ErrEmailTaken = errors.New("a user with this email already exists")

	// ErrPasswordPolicy rejects passwords that fail the strength rules.
	ErrPasswordPolicy = errors.New("password does not meet strength requirements")

	// ErrTooManyLoginAttempts is returned when the login limiter trips.
	ErrTooManyLoginAttempts = errors.New("too many login attempts")
)
