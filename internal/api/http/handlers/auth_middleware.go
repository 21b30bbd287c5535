package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cinemahub/cinema-service/internal/domain"
	"github.com/cinemahub/cinema-service/internal/service"
	apperrors "github.com/cinemahub/cinema-service/pkg/util/errorutil"
)

const userKey = "auth_user"

// AuthMiddleware validates bearer access tokens and loads the account.
// Header extraction and status mapping live here, not in the auth flows.
type AuthMiddleware struct {
	auth *service.AuthService
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: authService}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	user, err := m.auth.CurrentUser(c.Context(), parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("token expired or invalid")
	}

	c.Locals(userKey, user)
	return c.Next()
}

// UserFromContext retrieves the authenticated account.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(userKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
