package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cinemahub/cinema-service/internal/domain"
)

// memStore backs the fake repositories used by the service tests. It mimics
// the relational store closely enough to honor the lifecycle rules.
type memStore struct {
	mu          sync.Mutex
	users       map[string]*domain.User               // by id
	refresh     map[string]*domain.RefreshToken       // by token string
	activations map[string]*domain.ActivationToken    // by id
	resets      map[string]*domain.PasswordResetToken // by user id
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]*domain.User),
		refresh:     make(map[string]*domain.RefreshToken),
		activations: make(map[string]*domain.ActivationToken),
		resets:      make(map[string]*domain.PasswordResetToken),
	}
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

type fakeRefreshRepo struct{ s *memStore }

func (r *fakeRefreshRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	r.s.refresh[token.Token] = token
	return nil
}

func (r *fakeRefreshRepo) GetByToken(_ context.Context, tokenStr string) (*domain.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.refresh[tokenStr]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *token
	return &copied, nil
}

func (r *fakeRefreshRepo) Delete(_ context.Context, tokenStr string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.refresh[tokenStr]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.refresh, tokenStr)
	return nil
}

func (r *fakeRefreshRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed int64
	for key, token := range r.s.refresh {
		if time.Now().After(token.ExpiresAt) {
			delete(r.s.refresh, key)
			removed++
		}
	}
	return removed, nil
}

type fakeActivationRepo struct{ s *memStore }

func (r *fakeActivationRepo) Create(_ context.Context, token *domain.ActivationToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	r.s.activations[token.ID] = token
	return nil
}

func (r *fakeActivationRepo) GetByEmailAndToken(_ context.Context, email, tokenStr string) (*domain.ActivationToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, token := range r.s.activations {
		user, ok := r.s.users[token.UserID]
		if ok && user.Email == email && token.Token == tokenStr {
			copied := *token
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeActivationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.activations, id)
	return nil
}

func (r *fakeActivationRepo) DeleteByUserID(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, token := range r.s.activations {
		if token.UserID == userID {
			delete(r.s.activations, id)
		}
	}
	return nil
}

func (r *fakeActivationRepo) Consume(_ context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = true
	delete(r.s.activations, id)
	return nil
}

func (r *fakeActivationRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed int64
	for id, token := range r.s.activations {
		if time.Now().After(token.ExpiresAt) {
			delete(r.s.activations, id)
			removed++
		}
	}
	return removed, nil
}

type fakeResetRepo struct{ s *memStore }

func (r *fakeResetRepo) Replace(_ context.Context, token *domain.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	r.s.resets[token.UserID] = token
	return nil
}

func (r *fakeResetRepo) GetByUserID(_ context.Context, userID string) (*domain.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.resets[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *token
	return &copied, nil
}

func (r *fakeResetRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for userID, token := range r.s.resets {
		if token.ID == id {
			delete(r.s.resets, userID)
		}
	}
	return nil
}

func (r *fakeResetRepo) Consume(_ context.Context, id, userID, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	delete(r.s.resets, userID)
	return nil
}
