package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cinemahub/cinema-service/internal/config"
	"github.com/cinemahub/cinema-service/internal/events"
)

// NotificationService turns account lifecycle events into email sends.
// Delivery itself is stubbed; rendering and SMTP live outside this service.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleActivationEmail)
	n.dispatcher.Subscribe(events.EventActivationResent, n.handleActivationEmail)
	n.dispatcher.Subscribe(events.EventAccountActivated, n.handleActivationComplete)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.handlePasswordResetCompleted)
}

func (n *NotificationService) handleActivationEmail(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ActivationPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(event, "activation email",
		zap.String("activation_link", n.cfg.ActivationLink),
		zap.Time("token_expires_at", payload.ExpiresAt))
	return nil
}

func (n *NotificationService) handleActivationComplete(ctx context.Context, event events.Event) error {
	n.sendEmailStub(event, "activation complete email",
		zap.String("login_link", n.cfg.LoginLink))
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetPayload)
	if !ok {
		return nil
	}
	n.sendEmailStub(event, "password reset email",
		zap.String("reset_link", n.cfg.ResetLink),
		zap.Time("token_expires_at", payload.ExpiresAt))
	return nil
}

func (n *NotificationService) handlePasswordResetCompleted(ctx context.Context, event events.Event) error {
	n.sendEmailStub(event, "password reset complete email",
		zap.String("login_link", n.cfg.LoginLink))
	return nil
}

func (n *NotificationService) sendEmailStub(event events.Event, kind string, fields ...zap.Field) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	fields = append(fields,
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", event.Email),
		zap.String("event_type", string(event.Type)))
	n.logger.Info(kind, fields...)
}
