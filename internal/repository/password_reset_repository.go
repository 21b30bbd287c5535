package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinemahub/cinema-service/internal/domain"
)

// PasswordResetTokenRepository manages password reset tokens. The store
// enforces at most one live token per user.
type PasswordResetTokenRepository interface {
	// Replace deletes any existing token for the user and inserts the new
	// one in one transaction, so concurrent requests cannot leave two live
	// tokens (or none).
	Replace(ctx context.Context, token *domain.PasswordResetToken) error
	GetByUserID(ctx context.Context, userID string) (*domain.PasswordResetToken, error)
	Delete(ctx context.Context, id string) error
	// Consume overwrites the user's password hash and deletes the token in
	// one transaction.
	Consume(ctx context.Context, id, userID, passwordHash string) error
}

type passwordResetTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordResetTokenRepository constructs repository.
func NewPasswordResetTokenRepository(pool *pgxpool.Pool) PasswordResetTokenRepository {
	return &passwordResetTokenRepository{pool: pool}
}

func (r *passwordResetTokenRepository) Replace(ctx context.Context, token *domain.PasswordResetToken) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id=$1`, token.UserID); err != nil {
		return err
	}

	const insert = `
        INSERT INTO password_reset_tokens (user_id, token, expires_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert,
		token.UserID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *passwordResetTokenRepository) GetByUserID(ctx context.Context, userID string) (*domain.PasswordResetToken, error) {
	const query = `
        SELECT id, user_id, token, expires_at, created_at
        FROM password_reset_tokens WHERE user_id=$1`

	var token domain.PasswordResetToken
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
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

func (r *passwordResetTokenRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM password_reset_tokens WHERE id=$1`

	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *passwordResetTokenRepository) Consume(ctx context.Context, id, userID, passwordHash string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, passwordHash, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE id=$1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
