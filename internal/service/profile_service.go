package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/repository"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

var validCategories = map[domain.SkillCategory]struct{}{
	domain.SkillCategoryFrontend: {},
	domain.SkillCategoryBackend:  {},
	domain.SkillCategoryML:       {},
	domain.SkillCategoryDesign:   {},
	domain.SkillCategoryDevOps:   {},
	domain.SkillCategoryOther:    {},
}

var validProficiencies = map[domain.Proficiency]struct{}{
	domain.ProficiencyBeginner:     {},
	domain.ProficiencyIntermediate: {},
	domain.ProficiencyAdvanced:     {},
	domain.ProficiencyExpert:       {},
}

// ProfileService owns user profile documents.
type ProfileService struct {
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewProfileService constructs the service.
func NewProfileService(profiles repository.ProfileRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, dispatcher: dispatcher, logger: logger, now: time.Now}
}

// SaveProfile merges profile into the stored document of userID.
func (s *ProfileService) SaveProfile(ctx context.Context, userID string, profile *domain.UserProfile) (*domain.UserProfile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id required", nil)
	}
	if err := validateSkills(profile.TechnicalSkills); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, userID, profile); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Debug("profile saved", zap.String("user_id", userID))
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventProfileUpdated,
			ActorID:   userID,
			Timestamp: s.now().UTC(),
			Payload:   events.ProfileUpdatedPayload{UserID: userID},
		})
	}
	return s.GetProfile(ctx, userID)
}

// GetProfile returns the profile of userID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	return profile, nil
}

// ListCandidates returns every stored profile as the matcher's candidate pool.
func (s *ProfileService) ListCandidates(ctx context.Context) ([]domain.UserProfile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return profiles, nil
}

// MemberSnapshot builds the team member record for userID from their profile,
// falling back to the given display fields when no profile exists.
func (s *ProfileService) MemberSnapshot(ctx context.Context, userID, displayName, avatar string, role domain.TeamRole) (domain.TeamMember, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return domain.TeamMember{}, apperrors.MapError(err)
		}
		return domain.TeamMember{ID: userID, Name: displayName, Avatar: avatar, Role: role, Skills: []string{}}, nil
	}
	member := profile.TeamMember(userID, role)
	if member.Name == "" {
		member.Name = displayName
	}
	if member.Avatar == "" {
		member.Avatar = avatar
	}
	return member, nil
}

func validateSkills(skills []domain.Skill) error {
	for i, skill := range skills {
		if strings.TrimSpace(skill.Name) == "" {
			return apperrors.NewValidationError("skill name required", map[string]any{"index": i})
		}
		if skill.Category != "" {
			if _, ok := validCategories[skill.Category]; !ok {
				return apperrors.NewValidationError("invalid skill category", map[string]any{"index": i, "category": skill.Category})
			}
		}
		if skill.Proficiency != "" {
			if _, ok := validProficiencies[skill.Proficiency]; !ok {
				return apperrors.NewValidationError("invalid skill proficiency", map[string]any{"index": i, "proficiency": skill.Proficiency})
			}
		}
	}
	return nil
}
