package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cinemahub/cinema-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Profile        *handlers.ProfileHandler
	AuthMiddleware *handlers.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	accounts := app.Group("/accounts")
	accounts.Post("/register", cfg.Accounts.Register)
	accounts.Post("/activate", cfg.Accounts.Activate)
	accounts.Post("/activate/resend", cfg.Accounts.ResendActivation)
	accounts.Post("/login", cfg.Accounts.Login)
	accounts.Post("/refresh", cfg.Accounts.Refresh)
	accounts.Post("/logout", cfg.Accounts.Logout)
	accounts.Post("/password-reset/request", cfg.Accounts.RequestPasswordReset)
	accounts.Post("/password-reset/complete", cfg.Accounts.CompletePasswordReset)

	protected := accounts.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Profile.Me)
	protected.Post("/password/change", cfg.Profile.ChangePassword)
}
