package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/events"
)

func TestInMemoryDispatcher_PublishInSubscriptionOrder(t *testing.T) {
	d := events.NewInMemoryDispatcher(zap.NewNop())

	var calls []string
	d.Subscribe(events.EventMemberAdded, func(_ context.Context, e events.Event) error {
		calls = append(calls, "first:"+e.TeamID)
		return errors.New("handler failure")
	})
	d.Subscribe(events.EventMemberAdded, func(_ context.Context, e events.Event) error {
		calls = append(calls, "second:"+e.TeamID)
		return nil
	})
	d.Subscribe(events.EventTeamDeleted, func(context.Context, events.Event) error {
		calls = append(calls, "deleted")
		return nil
	})

	err := d.Publish(context.Background(), events.Event{Type: events.EventMemberAdded, TeamID: "t1"})
	require.NoError(t, err)
	require.Equal(t, []string{"first:t1", "second:t1"}, calls)
}

func TestInMemoryDispatcher_NoListeners(t *testing.T) {
	d := events.NewInMemoryDispatcher(nil)
	require.NoError(t, d.Publish(context.Background(), events.Event{Type: events.EventTeamCreated}))
}
