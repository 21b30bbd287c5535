package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cinemahub/cinema-service/internal/api/dto"
	"github.com/cinemahub/cinema-service/internal/service"
	apperrors "github.com/cinemahub/cinema-service/pkg/util/errorutil"
)

// genericResetMessage never varies with account existence, so the request
// phase cannot be used to enumerate registered emails.
const genericResetMessage = "If you are registered, you will receive an email with instructions."

// AccountsHandler exposes the account and token lifecycle endpoints.
type AccountsHandler struct {
	auth *service.AuthService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(authService *service.AuthService) *AccountsHandler {
	return &AccountsHandler{auth: authService}
}

// Register handles POST /accounts/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, err := h.auth.Register(c.Context(), req.Email, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// Activate handles POST /accounts/activate.
func (h *AccountsHandler) Activate(c *fiber.Ctx) error {
	var req dto.ActivationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "email and token required")
	}

	if err := h.auth.Activate(c.Context(), req.Email, req.Token); err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(dto.MessageResponse{Message: "User account activated successfully."})
}

// ResendActivation handles POST /accounts/activate/resend.
func (h *AccountsHandler) ResendActivation(c *fiber.Ctx) error {
	var req dto.ResendActivationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.auth.ResendActivation(c.Context(), req.Email); err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(dto.MessageResponse{Message: "New activation email sent successfully."})
}

// Login handles POST /accounts/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
}

// Refresh handles POST /accounts/refresh.
func (h *AccountsHandler) Refresh(c *fiber.Ctx) error {
	var req dto.TokenRefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.RefreshToken == "" {
		return fiber.NewError(http.StatusBadRequest, "refresh_token required")
	}

	accessToken, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(dto.TokenRefreshResponse{AccessToken: accessToken})
}

// Logout handles POST /accounts/logout.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	var req dto.TokenRefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.RefreshToken == "" {
		return fiber.NewError(http.StatusBadRequest, "refresh_token required")
	}

	if err := h.auth.Logout(c.Context(), req.RefreshToken); err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(dto.MessageResponse{Message: "User logged out successfully."})
}

// RequestPasswordReset handles POST /accounts/password-reset/request.
func (h *AccountsHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(dto.MessageResponse{Message: genericResetMessage})
}

// CompletePasswordReset handles POST /accounts/password-reset/complete.
func (h *AccountsHandler) CompletePasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetCompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Token == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email, token and password required")
	}

	if err := h.auth.CompletePasswordReset(c.Context(), req.Email, req.Token, req.Password); err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(dto.MessageResponse{Message: "Password reset successfully."})
}
