package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/docstore"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/repository"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

// DefaultActivityLimit caps activity listings when the caller gives no limit.
const DefaultActivityLimit = 50

// ActivityService records team events as an audit trail.
type ActivityService struct {
	activity repository.TeamActivityRepository
	teams    *TeamService
	logger   *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(activity repository.TeamActivityRepository, teams *TeamService, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{activity: activity, teams: teams, logger: logger}
}

// Record stores event as an activity entry. Events without a team are ignored.
func (s *ActivityService) Record(ctx context.Context, event events.Event) error {
	if event.TeamID == "" {
		return nil
	}
	details, err := docstore.Encode(event.Payload)
	if err != nil {
		return err
	}
	createdAt := event.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	entry := &domain.TeamActivity{
		ID:        event.ID,
		TeamID:    event.TeamID,
		Type:      string(event.Type),
		ActorID:   event.ActorID,
		Details:   details,
		CreatedAt: createdAt,
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		return err
	}
	s.logger.Debug("team activity recorded", zap.String("team_id", entry.TeamID), zap.String("type", entry.Type))
	return nil
}

// ListTeamActivity returns recent activity of a team to one of its members.
func (s *ActivityService) ListTeamActivity(ctx context.Context, teamID, actorID string, limit int) ([]domain.TeamActivity, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(actorID) && !team.IsLead(actorID) {
		return nil, apperrors.NewForbidden("only team members can view team activity")
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	entries, err := s.activity.ListByTeam(ctx, teamID, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
