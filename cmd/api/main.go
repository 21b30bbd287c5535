package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/cinemahub/cinema-service/internal/api/http"
	"github.com/cinemahub/cinema-service/internal/api/http/handlers"
	"github.com/cinemahub/cinema-service/internal/config"
	"github.com/cinemahub/cinema-service/internal/events"
	"github.com/cinemahub/cinema-service/internal/observability"
	"github.com/cinemahub/cinema-service/internal/persistence"
	"github.com/cinemahub/cinema-service/internal/repository"
	"github.com/cinemahub/cinema-service/internal/service"
	"github.com/cinemahub/cinema-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, cfg.Postgres, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	refreshRepo := repository.NewRefreshTokenRepository(pool)
	activationRepo := repository.NewActivationTokenRepository(pool)
	resetRepo := repository.NewPasswordResetTokenRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	limiter := service.NewLoginRateLimiter(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginAttemptWindow())

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		RefreshTokenRepo:  refreshRepo,
		ActivationRepo:    activationRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
		Limiter:           limiter,
		Metrics:           metrics,
		Logger:            logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if cfg.Sweep.Enabled {
		worker.StartTokenSweeper(ctx, logger, activationRepo, refreshRepo, cfg.Sweep.Interval())
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:       handlers.NewAccountsHandler(authService),
		Profile:        handlers.NewProfileHandler(authService),
		AuthMiddleware: handlers.NewAuthMiddleware(authService),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
