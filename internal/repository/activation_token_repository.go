package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinemahub/cinema-service/internal/domain"
)

// ActivationTokenRepository manages single-use account activation tokens.
type ActivationTokenRepository interface {
	Create(ctx context.Context, token *domain.ActivationToken) error
	// GetByEmailAndToken requires both the claimed email and the token
	// string, so the string alone is not sufficient context.
	GetByEmailAndToken(ctx context.Context, email, tokenStr string) (*domain.ActivationToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	// Consume activates the user and deletes the token in one transaction,
	// so a crash cannot leave the two outcomes observable separately.
	Consume(ctx context.Context, id, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type activationTokenRepository struct {
	pool *pgxpool.Pool
}

// NewActivationTokenRepository constructs repository.
func NewActivationTokenRepository(pool *pgxpool.Pool) ActivationTokenRepository {
	return &activationTokenRepository{pool: pool}
}

func (r *activationTokenRepository) Create(ctx context.Context, token *domain.ActivationToken) error {
	const query = `
        INSERT INTO activation_tokens (user_id, token, expires_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *activationTokenRepository) GetByEmailAndToken(ctx context.Context, email, tokenStr string) (*domain.ActivationToken, error) {
	const query = `
        SELECT t.id, t.user_id, t.token, t.expires_at, t.created_at
        FROM activation_tokens t
        JOIN users u ON u.id = t.user_id
        WHERE u.email=$1 AND t.token=$2`

	var token domain.ActivationToken
	if err := r.pool.QueryRow(ctx, query, email, tokenStr).Scan(
		&token.ID,
		&token.UserID,
		&token.Token,
		&token.ExpiresAt,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *activationTokenRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM activation_tokens WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *activationTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	const query = `DELETE FROM activation_tokens WHERE user_id=$1`

	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *activationTokenRepository) Consume(ctx context.Context, id, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `UPDATE users SET is_active=TRUE, updated_at=NOW() WHERE id=$1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM activation_tokens WHERE id=$1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *activationTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM activation_tokens WHERE expires_at < NOW()`

	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
