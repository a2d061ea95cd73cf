package worker

import (
	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/service"
)

var teamEventTypes = []events.EventType{
	events.EventTeamCreated,
	events.EventTeamUpdated,
	events.EventTeamDeleted,
	events.EventMemberAdded,
	events.EventMemberRemoved,
	events.EventJoinRequested,
	events.EventJoinAccepted,
	events.EventJoinRejected,
}

// StartActivityWorker persists every team event into the activity log.
func StartActivityWorker(dispatcher events.Dispatcher, activity *service.ActivityService) {
	if dispatcher == nil || activity == nil {
		return
	}
	for _, eventType := range teamEventTypes {
		dispatcher.Subscribe(eventType, activity.Record)
	}
}
