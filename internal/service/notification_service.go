package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/config"
	"github.com/Rupeshkotha/Hackhub/internal/events"
)

// NotificationService handles emitting notifications for team events.
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
	n.dispatcher.Subscribe(events.EventTeamCreated, n.handleTeamCreated)
	n.dispatcher.Subscribe(events.EventTeamDeleted, n.handleTeamDeleted)
	n.dispatcher.Subscribe(events.EventJoinRequested, n.handleJoinRequested)
	n.dispatcher.Subscribe(events.EventJoinAccepted, n.handleJoinDecided)
	n.dispatcher.Subscribe(events.EventJoinRejected, n.handleJoinDecided)
	n.dispatcher.Subscribe(events.EventMemberAdded, n.handleMembershipChanged)
	n.dispatcher.Subscribe(events.EventMemberRemoved, n.handleMembershipChanged)
}

func (n *NotificationService) handleTeamCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TeamCreated", zap.String("team_id", event.TeamID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTeamDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TeamDeleted", zap.String("team_id", event.TeamID), zap.String("actor_id", event.ActorID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// handleJoinRequested notifies the requested user; match decisions file
// requests on a candidate's behalf.
func (n *NotificationService) handleJoinRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("JoinRequested", zap.String("team_id", event.TeamID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleJoinDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("JoinRequestDecided",
		zap.String("team_id", event.TeamID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMembershipChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("MembershipChanged",
		zap.String("team_id", event.TeamID),
		zap.String("event_type", string(event.Type)),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("team_id", event.TeamID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("team_id", event.TeamID),
		zap.String("event_type", string(event.Type)))
}
