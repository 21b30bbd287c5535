package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cinemahub/cinema-service/internal/auth"
	"github.com/cinemahub/cinema-service/internal/config"
	"github.com/cinemahub/cinema-service/internal/domain"
	"github.com/cinemahub/cinema-service/internal/events"
	"github.com/cinemahub/cinema-service/internal/observability"
	"github.com/cinemahub/cinema-service/internal/repository"
)

// TokenPair bundles the tokens returned by a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService coordinates the account and token lifecycle flows.
type AuthService struct {
	users       repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	activations repository.ActivationTokenRepository
	resets      repository.PasswordResetTokenRepository
	tokens      *auth.JWTManager
	dispatcher  events.Dispatcher
	limiter     *LoginRateLimiter
	metrics     *observability.Metrics
	logger      *zap.Logger

	bcryptCost    int
	activationTTL time.Duration
	resetTTL      time.Duration
	refreshTTL    time.Duration
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	RefreshTokenRepo  repository.RefreshTokenRepository
	ActivationRepo    repository.ActivationTokenRepository
	PasswordResetRepo repository.PasswordResetTokenRepository
	Dispatcher        events.Dispatcher
	Limiter           *LoginRateLimiter
	Metrics           *observability.Metrics
	Logger            *zap.Logger
}

// NewAuthService builds the service. Secret keys, algorithm and TTLs are
// fixed here and never mutated afterwards.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	tokens, err := auth.NewJWTManager(
		cfg.Auth.SecretKeyAccess,
		cfg.Auth.SecretKeyRefresh,
		cfg.Auth.JWTSigningAlgorithm,
		cfg.Auth.AccessTokenTTL(),
		cfg.Auth.RefreshTokenTTL(),
	)
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{
		users:         deps.UserRepo,
		refreshRepo:   deps.RefreshTokenRepo,
		activations:   deps.ActivationRepo,
		resets:        deps.PasswordResetRepo,
		tokens:        tokens,
		dispatcher:    deps.Dispatcher,
		limiter:       deps.Limiter,
		metrics:       deps.Metrics,
		logger:        logger,
		bcryptCost:    cfg.Auth.BcryptCost,
		activationTTL: cfg.Auth.ActivationTTL(),
		resetTTL:      cfg.Auth.PasswordResetTTL(),
		refreshTTL:    cfg.Auth.RefreshTokenTTL(),
	}, nil
}

// Register creates an inactive account and issues its activation token.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.issueActivationToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user, events.ActivationPayload{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
	s.record("user_registered")
	return user, nil
}

// Activate consumes an activation token and marks the account active.
func (s *AuthService) Activate(ctx context.Context, email, tokenStr string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	record, err := s.activations.GetByEmailAndToken(ctx, email, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTokenNotFound
		}
		return err
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.activations.Delete(ctx, record.ID); err != nil {
			return err
		}
		return auth.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsActive {
		return ErrAccountAlreadyActive
	}

	if err := s.activations.Consume(ctx, record.ID, record.UserID); err != nil {
		return err
	}

	s.publish(ctx, events.EventAccountActivated, user, nil)
	s.record("account_activated")
	return nil
}

// ResendActivation deletes any prior activation token and mints a fresh one.
func (s *AuthService) ResendActivation(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsActive {
		return ErrAccountAlreadyActive
	}

	if err := s.activations.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}

	token, err := s.issueActivationToken(ctx, user.ID)
	if err != nil {
		return err
	}

	s.publish(ctx, events.EventActivationResent, user, events.ActivationPayload{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
	return nil
}

// Login authenticates credentials and issues an access/refresh token pair.
// The refresh token is persisted so logout can revoke it later.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrAuthentication
	}

	if allowed, err := s.limiter.Allow(ctx, email); err != nil {
		s.logger.Warn("login limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, ErrTooManyLoginAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.failLogin(ctx, email)
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Corrupt stored hash; fatal for the account, never a mismatch.
		s.logger.Error("stored password hash is malformed",
			zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, s.failLogin(ctx, email)
	}

	// Inactivity is revealed only after a correct password, so this path
	// cannot be used to probe which emails are registered.
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	claims := map[string]any{"user_id": user.ID}

	refreshToken, err := s.tokens.CreateRefreshToken(claims, 0)
	if err != nil {
		return nil, err
	}
	if err := s.refreshRepo.Create(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.CreateAccessToken(claims, 0)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.logger.Warn("login limiter reset failed", zap.Error(err))
	}
	s.record("login_ok")
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh validates a refresh token and issues a new access token. The store
// existence check is the revocation mechanism: a logged-out token fails here
// even while its signature and expiry are still valid. The refresh token
// itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.DecodeRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", auth.ErrInvalidToken
	}

	if _, err := s.refreshRepo.GetByToken(ctx, refreshToken); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	accessToken, err := s.tokens.CreateAccessToken(map[string]any{"user_id": userID}, 0)
	if err != nil {
		return "", err
	}
	s.record("token_refreshed")
	return accessToken, nil
}

// Logout revokes a session by deleting its refresh token row.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshRepo.Delete(ctx, refreshToken); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTokenNotFound
		}
		return err
	}
	s.record("logout")
	return nil
}

// RequestPasswordReset issues a singleton reset token for an existing active
// account. It succeeds silently for unknown or inactive emails so the
// endpoint cannot be used to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	opaque, err := auth.GenerateOpaqueToken()
	if err != nil {
		return err
	}
	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     opaque,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Replace(ctx, token); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordResetRequested, user, events.PasswordResetPayload{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
	s.record("password_reset_requested")
	return nil
}

// CompletePasswordReset consumes a reset token and overwrites the password
// hash. A mismatched or expired token is deleted on sight; a consumed token
// never authenticates again.
func (s *AuthService) CompletePasswordReset(ctx context.Context, email, tokenStr, newPassword string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return ErrTokenNotFound
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTokenNotFound
		}
		return err
	}
	if !user.IsActive {
		return ErrTokenNotFound
	}

	record, err := s.resets.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTokenNotFound
		}
		return err
	}

	if subtle.ConstantTimeCompare([]byte(record.Token), []byte(tokenStr)) != 1 {
		if err := s.resets.Delete(ctx, record.ID); err != nil {
			return err
		}
		return ErrTokenNotFound
	}

	if time.Now().After(record.ExpiresAt) {
		if err := s.resets.Delete(ctx, record.ID); err != nil {
			return err
		}
		return auth.ErrTokenExpired
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.resets.Consume(ctx, record.ID, user.ID, hash); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordResetCompleted, user, nil)
	s.record("password_reset_completed")
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	ok, err := auth.VerifyPassword(currentPassword, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash is malformed",
			zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	if !ok {
		return ErrAuthentication
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// CurrentUser resolves an access token to its account.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.tokens.DecodeAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, auth.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the codec for middleware usage.
func (s *AuthService) TokenManager() *auth.JWTManager {
	return s.tokens
}

func (s *AuthService) issueActivationToken(ctx context.Context, userID string) (*domain.ActivationToken, error) {
	opaque, err := auth.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}
	token := &domain.ActivationToken{
		UserID:    userID,
		Token:     opaque,
		ExpiresAt: time.Now().Add(s.activationTTL),
	}
	if err := s.activations.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (s *AuthService) failLogin(ctx context.Context, email string) error {
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("login limiter record failed", zap.Error(err))
	}
	s.record("login_failed")
	return ErrAuthentication
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, user *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    user.ID,
		Email:     user.Email,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func (s *AuthService) record(outcome string) {
	s.metrics.RecordAuthEvent(outcome)
}
