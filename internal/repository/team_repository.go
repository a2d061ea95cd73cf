package repository

import (
	"context"
	"errors"

	"github.com/Rupeshkotha/Hackhub/internal/docstore"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
)

const teamsCollection = "teams"

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = docstore.ErrNotFound

// TeamMutation edits a team inside a transaction and reports whether it changed.
type TeamMutation func(team *domain.Team) (bool, error)

// TeamRepository manages persistence for teams.
type TeamRepository interface {
	NewID() string
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	GetByCode(ctx context.Context, code string) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Team, error)
	ListByJoinRequest(ctx context.Context, userID string) ([]domain.Team, error)
	ListByAnyRequiredSkill(ctx context.Context, skills []string) ([]domain.Team, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Mutate(ctx context.Context, id string, fn TeamMutation) (*domain.Team, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type teamRepository struct {
	store docstore.Store
}

// NewTeamRepository constructs repository.
func NewTeamRepository(store docstore.Store) TeamRepository {
	return &teamRepository{store: store}
}

func (r *teamRepository) NewID() string {
	return r.store.GenerateID(teamsCollection)
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	team.Normalize()
	doc, err := docstore.Encode(team)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, teamsCollection, team.ID, doc, false)
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	doc, err := r.store.Get(ctx, teamsCollection, id)
	if err != nil {
		return nil, err
	}
	return decodeTeam(id, doc)
}

func (r *teamRepository) GetByCode(ctx context.Context, code string) (*domain.Team, error) {
	teams, err := r.query(ctx, docstore.Equals("teamCode", code))
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNotFound
	}
	return &teams[0], nil
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	return r.query(ctx)
}

func (r *teamRepository) ListByMember(ctx context.Context, userID string) ([]domain.Team, error) {
	return r.query(ctx, docstore.ArrayContains("memberIds", userID))
}

func (r *teamRepository) ListByJoinRequest(ctx context.Context, userID string) ([]domain.Team, error) {
	return r.query(ctx, docstore.ArrayContains("joinRequests", userID))
}

func (r *teamRepository) ListByAnyRequiredSkill(ctx context.Context, skills []string) ([]domain.Team, error) {
	values := make([]any, 0, len(skills))
	for _, s := range skills {
		values = append(values, s)
	}
	return r.query(ctx, docstore.ArrayContainsAny("requiredSkills", values...))
}

func (r *teamRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.Update(ctx, teamsCollection, id, docstore.Document(fields))
}

func (r *teamRepository) Mutate(ctx context.Context, id string, fn TeamMutation) (*domain.Team, error) {
	var result *domain.Team
	err := r.store.RunTransaction(ctx, teamsCollection, id, func(current docstore.Document) (docstore.Document, error) {
		team, err := decodeTeam(id, current)
		if err != nil {
			return nil, err
		}
		changed, err := fn(team)
		if err != nil {
			return nil, err
		}
		result = team
		if !changed {
			return nil, nil
		}
		team.Normalize()
		return docstore.Encode(team)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *teamRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.store.Delete(ctx, teamsCollection, id)
}

func (r *teamRepository) query(ctx context.Context, preds ...docstore.Predicate) ([]domain.Team, error) {
	docs, err := r.store.Query(ctx, teamsCollection, preds...)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Team, 0, len(docs))
	for _, doc := range docs {
		id, _ := doc["id"].(string)
		team, err := decodeTeam(id, doc)
		if err != nil {
			return nil, err
		}
		result = append(result, *team)
	}
	return result, nil
}

func decodeTeam(id string, doc docstore.Document) (*domain.Team, error) {
	if doc == nil {
		return nil, errors.New("empty team document")
	}
	var team domain.Team
	if err := docstore.Decode(doc, &team); err != nil {
		return nil, err
	}
	if id != "" {
		team.ID = id
	}
	team.Normalize()
	return &team, nil
}
