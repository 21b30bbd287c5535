package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cinemahub/cinema-service/internal/repository"
	"github.com/cinemahub/cinema-service/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartTokenSweeper periodically deletes expired activation and refresh
// token rows. This is a cleanup optimization only; lookups already reject
// expired tokens lazily.
func StartTokenSweeper(
	ctx context.Context,
	logger *zap.Logger,
	activations repository.ActivationTokenRepository,
	refreshTokens repository.RefreshTokenRepository,
	interval time.Duration,
) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep(ctx, logger, activations, refreshTokens)
			}
		}
	}()
}

func sweep(
	ctx context.Context,
	logger *zap.Logger,
	activations repository.ActivationTokenRepository,
	refreshTokens repository.RefreshTokenRepository,
) {
	removed, err := activations.DeleteExpired(ctx)
	if err != nil {
		logger.Error("sweep expired activation tokens", zap.Error(err))
	} else if removed > 0 {
		logger.Info("expired activation tokens removed", zap.Int64("count", removed))
	}

	removed, err = refreshTokens.DeleteExpired(ctx)
	if err != nil {
		logger.Error("sweep expired refresh tokens", zap.Error(err))
	} else if removed > 0 {
		logger.Info("expired refresh tokens removed", zap.Int64("count", removed))
	}
}
