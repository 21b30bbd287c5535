package auth

import (
	"errors"
	"fmt"
)

// ErrInvalidToken covers bad signature, wrong algorithm and malformed structure.
var ErrInvalidToken = errors.New("invalid token")

// ErrTokenExpired is reported for tokens that are correctly signed but past
// their expiry. It wraps ErrInvalidToken so callers can treat both as a
// rejection and still special-case expiry.
var ErrTokenExpired = fmt.Errorf("%w: token has expired", ErrInvalidToken)

// ErrHashFormat indicates a corrupt stored password hash. Fatal for the
// affected account; never silently treated as a mismatch.
var ErrHashFormat = errors.New("malformed password hash")
