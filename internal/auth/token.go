package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Token type claim values.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTManager issues and validates signed session tokens. Access and refresh
// tokens use independent secrets; the signing method is fixed at construction
// and enforced on decode. The manager is pure and safe for concurrent use.
type JWTManager struct {
	accessSecret  []byte
	refreshSecret []byte
	method        jwt.SigningMethod
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTManager builds a manager. Only the HMAC family is accepted as the
// signing algorithm.
func NewJWTManager(accessSecret, refreshSecret, algorithm string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if accessTTL <= 0 {
		accessTTL = 10 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		method:        method,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// CreateAccessToken signs the claims as an access token. A zero ttl falls
// back to the configured default.
func (m *JWTManager) CreateAccessToken(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = m.accessTTL
	}
	return m.create(claims, TokenTypeAccess, m.accessSecret, ttl)
}

// CreateRefreshToken signs the claims as a refresh token.
func (m *JWTManager) CreateRefreshToken(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = m.refreshTTL
	}
	return m.create(claims, TokenTypeRefresh, m.refreshSecret, ttl)
}

// DecodeAccessToken verifies an access token and returns its claims.
func (m *JWTManager) DecodeAccessToken(tokenStr string) (map[string]any, error) {
	return m.decode(tokenStr, TokenTypeAccess, m.accessSecret)
}

// DecodeRefreshToken verifies a refresh token and returns its claims.
func (m *JWTManager) DecodeRefreshToken(tokenStr string) (map[string]any, error) {
	return m.decode(tokenStr, TokenTypeRefresh, m.refreshSecret)
}

func (m *JWTManager) create(claims map[string]any, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	payload := jwt.MapClaims{}
	for k, v := range claims {
		payload[k] = v
	}
	payload["token_type"] = tokenType
	payload["iat"] = jwt.NewNumericDate(now)
	payload["exp"] = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(m.method, payload)
	return token.SignedString(secret)
}

func (m *JWTManager) decode(tokenStr, tokenType string, secret []byte) (map[string]any, error) {
	parsed, err := jwt.Parse(tokenStr,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != m.method.Alg() {
				return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
			}
			return secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{m.method.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims["token_type"] != tokenType {
		return nil, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}
	return map[string]any(claims), nil
}
