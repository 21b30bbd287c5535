package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinemahub/cinema-service/internal/domain"
)

// RefreshTokenRepository manages persisted refresh tokens. Deleting a row is
// the only revocation mechanism for session tokens.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, tokenStr string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, tokenStr string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type refreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository constructs repository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{pool: pool}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	const query = `
        INSERT INTO refresh_tokens (user_id, token, expires_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, tokenStr string) (*domain.RefreshToken, error) {
	const query = `
        SELECT id, user_id, token, expires_at, created_at
        FROM refresh_tokens WHERE token=$1`

	var token domain.RefreshToken
	if err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
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

func (r *refreshTokenRepository) Delete(ctx context.Context, tokenStr string) error {
	const query = `DELETE FROM refresh_tokens WHERE token=$1`

	cmd, err := r.pool.Exec(ctx, query, tokenStr)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM refresh_tokens WHERE expires_at < NOW()`

	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
