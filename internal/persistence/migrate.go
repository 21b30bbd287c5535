package persistence

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/cinemahub/cinema-service/internal/config"
	"github.com/cinemahub/cinema-service/internal/persistence/migrations"
)

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) error {
	if cfg.DSN == "" {
		logger.Warn("no postgres DSN available; skipping migrations")
		return nil
	}

	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}
