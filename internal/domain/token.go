package domain

import "time"

// RefreshToken is a persisted signed session token. Multiple rows may exist
// per user (one per device); deleting the row is the revocation mechanism.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// ActivationToken is a single-use opaque token scoped to account activation.
type ActivationToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// PasswordResetToken is a single-use opaque token; at most one exists per
// user at any time.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
