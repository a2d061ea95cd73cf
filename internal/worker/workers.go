package worker

import (
	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/service"
)

// Dependencies are the services the background subscribers act on. Nil
// services are skipped.
type Dependencies struct {
	Dispatcher    events.Dispatcher
	Teams         *service.TeamService
	Activity      *service.ActivityService
	Notifications *service.NotificationService
	Logger        *zap.Logger
}

// Start subscribes every worker to the dispatcher.
func Start(deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Notifications != nil {
		deps.Notifications.RegisterHandlers()
	}
	StartReconcileWorker(deps.Dispatcher, deps.Teams, logger)
	StartActivityWorker(deps.Dispatcher, deps.Activity)
	logger.Debug("workers started",
		zap.Bool("notifications", deps.Notifications != nil),
		zap.Bool("reconcile", deps.Dispatcher != nil && deps.Teams != nil),
		zap.Bool("activity", deps.Dispatcher != nil && deps.Activity != nil))
}
