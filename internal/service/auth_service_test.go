package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinemahub/cinema-service/internal/auth"
	"github.com/cinemahub/cinema-service/internal/config"
	"github.com/cinemahub/cinema-service/internal/events"
)

const (
	testEmail    = "a@b.com"
	testPassword = "Str0ng!Pass"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			SecretKeyAccess:         "test-access-secret",
			SecretKeyRefresh:        "test-refresh-secret",
			JWTSigningAlgorithm:     "HS256",
			AccessTokenTTLMinutes:   10,
			LoginTimeDays:           7,
			ActivationTTLHours:      24,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              bcrypt.MinCost,
		},
	}
}

func newTestService(t *testing.T) (*AuthService, *memStore) {
	t.Helper()

	store := newMemStore()
	svc, err := NewAuthService(testConfig(), AuthDependencies{
		UserRepo:          &fakeUserRepo{s: store},
		RefreshTokenRepo:  &fakeRefreshRepo{s: store},
		ActivationRepo:    &fakeActivationRepo{s: store},
		PasswordResetRepo: &fakeResetRepo{s: store},
		Dispatcher:        events.NewInMemoryDispatcher(),
	})
	require.NoError(t, err)
	return svc, store
}

func activationTokenFor(store *memStore, userID string) string {
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, token := range store.activations {
		if token.UserID == userID {
			return token.Token
		}
	}
	return ""
}

func resetTokenFor(store *memStore, userID string) string {
	store.mu.Lock()
	defer store.mu.Unlock()
	if token, ok := store.resets[userID]; ok {
		return token.Token
	}
	return ""
}

func registerActive(t *testing.T, svc *AuthService, store *memStore) string {
	t.Helper()

	user, err := svc.Register(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.NoError(t, svc.Activate(context.Background(), testEmail, activationTokenFor(store, user.ID)))
	return user.ID
}

func TestRegister_IssuesActivationToken(t *testing.T) {
	svc, store := newTestService(t)

	user, err := svc.Register(context.Background(), "A@B.com", testPassword)
	require.NoError(t, err)

	assert.Equal(t, testEmail, user.Email) // normalized
	assert.False(t, user.IsActive)
	assert.NotEmpty(t, activationTokenFor(store, user.ID))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), testEmail, testPassword)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), testEmail, testPassword)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_WeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), testEmail, "short")
	assert.ErrorIs(t, err, ErrPasswordPolicy)
}

func TestActivate_FlowAndSingleUse(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	token := activationTokenFor(store, user.ID)
	require.NoError(t, svc.Activate(ctx, testEmail, token))

	loaded, err := (&fakeUserRepo{s: store}).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsActive)

	// the consumed token never authenticates again
	err = svc.Activate(ctx, testEmail, token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestActivate_ExpiredTokenDeleted(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)
	token := activationTokenFor(store, user.ID)

	store.mu.Lock()
	for _, record := range store.activations {
		record.ExpiresAt = time.Now().Add(-time.Minute)
	}
	store.mu.Unlock()

	err = svc.Activate(ctx, testEmail, token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)

	// row removed on expiry detection; the retry reports not-found
	err = svc.Activate(ctx, testEmail, token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestResendActivation_ReplacesToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)
	oldToken := activationTokenFor(store, user.ID)

	require.NoError(t, svc.ResendActivation(ctx, testEmail))
	newToken := activationTokenFor(store, user.ID)

	assert.NotEqual(t, oldToken, newToken)
	assert.ErrorIs(t, svc.Activate(ctx, testEmail, oldToken), ErrTokenNotFound)
	assert.NoError(t, svc.Activate(ctx, testEmail, newToken))
}

func TestResendActivation_Errors(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ResendActivation(ctx, "missing@b.com"), ErrUserNotFound)

	registerActive(t, svc, store)
	assert.ErrorIs(t, svc.ResendActivation(ctx, testEmail), ErrAccountAlreadyActive)
}

func TestLogin_InactiveVsWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	// correct password on an inactive account is a distinct rejection
	_, err = svc.Login(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, ErrAccountInactive)

	// a wrong password must not reveal that the account is inactive
	_, err = svc.Login(ctx, testEmail, "Wr0ng!Pass1")
	assert.ErrorIs(t, err, ErrAuthentication)

	// unknown email is indistinguishable from a wrong password
	_, err = svc.Login(ctx, "nobody@b.com", testPassword)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestLogin_IssuesPersistedRefreshToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	registerActive(t, svc, store)

	pair, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	_, err = (&fakeRefreshRepo{s: store}).GetByToken(ctx, pair.RefreshToken)
	assert.NoError(t, err)

	// multiple concurrent sessions are allowed
	second, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, second.RefreshToken)
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerActive(t, svc, store)

	pair, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	accessToken, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.TokenManager().DecodeAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims["user_id"])

	// the refresh token is not rotated
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_RejectsGarbage(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	registerActive(t, svc, store)

	pair, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	// still cryptographically valid, but revoked: the store check fails,
	// not the signature check
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	assert.ErrorIs(t, svc.Logout(ctx, pair.RefreshToken), ErrTokenNotFound)
}

func TestRefresh_UnknownUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerActive(t, svc, store)

	pair, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	store.mu.Lock()
	delete(store.users, userID)
	store.mu.Unlock()

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPasswordReset_SingletonInvariant(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerActive(t, svc, store)

	require.NoError(t, svc.RequestPasswordReset(ctx, testEmail))
	first := resetTokenFor(store, userID)
	require.NotEmpty(t, first)

	require.NoError(t, svc.RequestPasswordReset(ctx, testEmail))
	second := resetTokenFor(store, userID)
	require.NotEmpty(t, second)

	// issuing a new token deletes the old one; only the latest survives
	assert.NotEqual(t, first, second)

	const newPassword = "N3w!Password"
	require.NoError(t, svc.CompletePasswordReset(ctx, testEmail, second, newPassword))

	_, err := svc.Login(ctx, testEmail, newPassword)
	assert.NoError(t, err)
	_, err = svc.Login(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestPasswordReset_SilentForUnknownOrInactive(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// unknown email: generic success, nothing stored
	assert.NoError(t, svc.RequestPasswordReset(ctx, "ghost@b.com"))

	// inactive account: same
	user, err := svc.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)
	assert.NoError(t, svc.RequestPasswordReset(ctx, testEmail))
	assert.Empty(t, resetTokenFor(store, user.ID))
}

func TestPasswordReset_MismatchDeletesToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerActive(t, svc, store)

	require.NoError(t, svc.RequestPasswordReset(ctx, testEmail))
	token := resetTokenFor(store, userID)

	err := svc.CompletePasswordReset(ctx, testEmail, "wrong-token", "N3w!Password")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	// the real token was burned by the mismatched attempt
	err = svc.CompletePasswordReset(ctx, testEmail, token, "N3w!Password")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestPasswordReset_Expired(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerActive(t, svc, store)

	require.NoError(t, svc.RequestPasswordReset(ctx, testEmail))
	token := resetTokenFor(store, userID)

	store.mu.Lock()
	store.resets[userID].ExpiresAt = time.Now().Add(-time.Minute)
	store.mu.Unlock()

	err := svc.CompletePasswordReset(ctx, testEmail, token, "N3w!Password")
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
	assert.Empty(t, resetTokenFor(store, userID))
}

func TestChangePassword(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerActive(t, svc, store)

	err := svc.ChangePassword(ctx, userID, "Wr0ng!Pass1", "N3w!Password")
	assert.ErrorIs(t, err, ErrAuthentication)

	require.NoError(t, svc.ChangePassword(ctx, userID, testPassword, "N3w!Password"))

	_, err = svc.Login(ctx, testEmail, "N3w!Password")
	assert.NoError(t, err)
}

func TestCurrentUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	userID := registerActive(t, svc, store)

	pair, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	// refresh tokens never pass the access-token check
	_, err = svc.CurrentUser(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
