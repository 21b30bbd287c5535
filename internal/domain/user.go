package domain

import "time"

// User is the domain model for store customers. Accounts start inactive and
// become active once the activation token is consumed.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
