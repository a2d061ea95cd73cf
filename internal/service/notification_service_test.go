package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Rupeshkotha/Hackhub/internal/config"
	"github.com/Rupeshkotha/Hackhub/internal/events"
)

func TestNotificationService_LogsTeamEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger)

	svc := NewNotificationService(dispatcher, logger, config.NotificationConfig{WebhookURL: "http://hooks.local/teams"})
	svc.RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventJoinAccepted, TeamID: "t1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventMemberRemoved, TeamID: "t1"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{Type: events.EventProfileUpdated}))

	require.Equal(t, 1, logs.FilterMessage("JoinRequestDecided").Len())
	require.Equal(t, 1, logs.FilterMessage("MembershipChanged").Len())
	require.Equal(t, 2, logs.FilterMessage("sendWebhookNotificationStub").Len())
	require.Zero(t, logs.FilterMessage("sendEmailNotificationStub").Len())
}
