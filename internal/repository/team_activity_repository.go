package repository

import (
	"context"

	"github.com/Rupeshkotha/Hackhub/internal/docstore"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
)

const teamActivityCollection = "team_activity"

// TeamActivityRepository stores audit entries.
type TeamActivityRepository interface {
	Create(ctx context.Context, activity *domain.TeamActivity) error
	ListByTeam(ctx context.Context, teamID string, limit int) ([]domain.TeamActivity, error)
}

type teamActivityRepository struct {
	store docstore.Store
}

// NewTeamActivityRepository builds repository.
func NewTeamActivityRepository(store docstore.Store) TeamActivityRepository {
	return &teamActivityRepository{store: store}
}

func (r *teamActivityRepository) Create(ctx context.Context, activity *domain.TeamActivity) error {
	if activity.ID == "" {
		activity.ID = r.store.GenerateID(teamActivityCollection)
	}
	doc, err := docstore.Encode(activity)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, teamActivityCollection, activity.ID, doc, false)
}

// ListByTeam returns the most recent entries, oldest first. A non-positive
// limit returns every entry.
func (r *teamActivityRepository) ListByTeam(ctx context.Context, teamID string, limit int) ([]domain.TeamActivity, error) {
	docs, err := r.store.Query(ctx, teamActivityCollection, docstore.Equals("teamId", teamID))
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(docs) > limit {
		docs = docs[len(docs)-limit:]
	}
	result := make([]domain.TeamActivity, 0, len(docs))
	for _, doc := range docs {
		var activity domain.TeamActivity
		if err := docstore.Decode(doc, &activity); err != nil {
			return nil, err
		}
		result = append(result, activity)
	}
	return result, nil
}
