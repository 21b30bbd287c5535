package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// opaqueTokenBytes is the entropy drawn per opaque token.
const opaqueTokenBytes = 32

// GenerateOpaqueToken returns a URL-safe random string for activation and
// password reset tokens. The value carries no structure; it is meaningless
// without a store lookup.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
