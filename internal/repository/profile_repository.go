package repository

import (
	"context"

	"github.com/Rupeshkotha/Hackhub/internal/docstore"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
)

const profilesCollection = "profiles"

// ProfileRepository manages user profile documents keyed by user id.
type ProfileRepository interface {
	Save(ctx context.Context, userID string, profile *domain.UserProfile) error
	GetByID(ctx context.Context, userID string) (*domain.UserProfile, error)
	List(ctx context.Context) ([]domain.UserProfile, error)
}

type profileRepository struct {
	store docstore.Store
}

// NewProfileRepository constructs repository.
func NewProfileRepository(store docstore.Store) ProfileRepository {
	return &profileRepository{store: store}
}

// Save merges the non-empty fields of profile into the stored document.
func (r *profileRepository) Save(ctx context.Context, userID string, profile *domain.UserProfile) error {
	profile.ID = userID
	doc, err := docstore.Encode(profile)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, profilesCollection, userID, doc, true)
}

func (r *profileRepository) GetByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	doc, err := r.store.Get(ctx, profilesCollection, userID)
	if err != nil {
		return nil, err
	}
	var profile domain.UserProfile
	if err := docstore.Decode(doc, &profile); err != nil {
		return nil, err
	}
	profile.ID = userID
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]domain.UserProfile, error) {
	docs, err := r.store.Query(ctx, profilesCollection)
	if err != nil {
		return nil, err
	}
	result := make([]domain.UserProfile, 0, len(docs))
	for _, doc := range docs {
		var profile domain.UserProfile
		if err := docstore.Decode(doc, &profile); err != nil {
			return nil, err
		}
		result = append(result, profile)
	}
	return result, nil
}
