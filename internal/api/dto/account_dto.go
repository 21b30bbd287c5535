package dto

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ActivationRequest payload for account activation.
type ActivationRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// ResendActivationRequest payload for a fresh activation token.
type ResendActivationRequest struct {
	Email string `json:"email"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token pair.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenRefreshRequest payload for refresh and logout.
type TokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenRefreshResponse carries the freshly minted access token.
type TokenRefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// PasswordResetRequest payload for the reset request phase.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetCompleteRequest payload for the reset complete phase.
type PasswordResetCompleteRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// PasswordChangeRequest payload for an authenticated password change.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// MessageResponse is a generic confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
