package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cinemahub/cinema-service/internal/api/dto"
	"github.com/cinemahub/cinema-service/internal/service"
	apperrors "github.com/cinemahub/cinema-service/pkg/util/errorutil"
)

// ProfileHandler exposes endpoints for the authenticated account.
type ProfileHandler struct {
	auth *service.AuthService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(authService *service.AuthService) *ProfileHandler {
	return &ProfileHandler{auth: authService}
}

// Me handles GET /accounts/me.
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	user, ok := UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"is_active":  user.IsActive,
			"created_at": user.CreatedAt,
		},
	})
}

// ChangePassword handles POST /accounts/password/change.
func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	user, ok := UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current_password and new_password required")
	}

	if err := h.auth.ChangePassword(c.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(dto.MessageResponse{Message: "Password changed successfully."})
}
