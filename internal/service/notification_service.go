package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/maxelo/hr-portal/internal/config"
	"github.com/maxelo/hr-portal/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Email and webhook delivery are stubs that log what would be sent.
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
	n.dispatcher.Subscribe(events.EventLeaveSubmitted, n.handleLeaveSubmitted)
	n.dispatcher.Subscribe(events.EventLeaveDecided, n.handleLeaveDecided)
	n.dispatcher.Subscribe(events.EventMessageSent, n.handleMessageSent)
	n.dispatcher.Subscribe(events.EventEmployeeCreated, n.handleEmployeeCreated)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
}

func (n *NotificationService) handleLeaveSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("LeaveSubmitted", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLeaveDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("LeaveDecided", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMessageSent(ctx context.Context, event events.Event) error {
	n.logger.Info("MessageSent", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEmployeeCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeCreated", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	// The simulated reset link goes to the log in place of an outbound mail.
	n.logger.Info("PasswordResetRequested",
		zap.String("event_id", event.ID),
		zap.String("email", payload.Email),
		zap.String("reset_path", "/api/v1/auth/password/reset?token="+payload.Token))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
