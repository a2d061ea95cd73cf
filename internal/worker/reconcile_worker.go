package worker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/service"
)

// StartReconcileWorker refreshes the member snapshots of every team a user
// belongs to whenever that user's profile is saved.
func StartReconcileWorker(dispatcher events.Dispatcher, teams *service.TeamService, logger *zap.Logger) {
	if dispatcher == nil || teams == nil {
		return
	}
	dispatcher.Subscribe(events.EventProfileUpdated, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.ProfileUpdatedPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T", event.Payload)
		}
		memberships, err := teams.GetUserTeams(ctx, payload.UserID)
		if err != nil {
			return err
		}
		for _, team := range memberships {
			if _, err := teams.ReconcileMembers(ctx, team.ID); err != nil {
				logger.Warn("member reconciliation failed",
					zap.String("team_id", team.ID),
					zap.String("user_id", payload.UserID),
					zap.Error(err))
			}
		}
		return nil
	})
}
