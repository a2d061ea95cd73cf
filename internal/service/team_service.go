package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/config"
	"github.com/Rupeshkotha/Hackhub/internal/docstore"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/observability"
	"github.com/Rupeshkotha/Hackhub/internal/repository"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

const teamCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TeamService is the team registry: team lifecycle and membership transitions.
// Every membership change runs as a read-modify-write inside a store
// transaction so capacity and duplicate checks hold under concurrent callers.
type TeamService struct {
	teams             repository.TeamRepository
	profiles          repository.ProfileRepository
	dispatcher        events.Dispatcher
	metrics           *observability.Metrics
	logger            *zap.Logger
	defaultMaxMembers int
	codeAttempts      int
	now               func() time.Time
	generateCode      func() (string, error)
}

// TeamDependencies bundles collaborators for the team service.
type TeamDependencies struct {
	TeamRepo    repository.TeamRepository
	ProfileRepo repository.ProfileRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
	Config      config.TeamsConfig
}

// TeamCreateInput describes team creation payload.
type TeamCreateInput struct {
	Name           string
	Description    string
	HackathonID    string
	HackathonName  string
	RequiredSkills []string
	MaxMembers     int
	CreatedBy      string
	// Members seeds the member list, conventionally with the creator as lead.
	Members []domain.TeamMember
}

// TeamUpdate carries the fields to overwrite. Nil fields are left untouched.
type TeamUpdate struct {
	Name           *string
	Description    *string
	HackathonID    *string
	HackathonName  *string
	RequiredSkills *[]string
	MaxMembers     *int
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxMembers := deps.Config.DefaultMaxMembers
	if maxMembers <= 0 {
		maxMembers = domain.DefaultMaxMembers
	}
	attempts := deps.Config.CodeAttempts
	if attempts <= 0 {
		attempts = 5
	}
	return &TeamService{
		teams:             deps.TeamRepo,
		profiles:          deps.ProfileRepo,
		dispatcher:        deps.Dispatcher,
		metrics:           deps.Metrics,
		logger:            logger,
		defaultMaxMembers: maxMembers,
		codeAttempts:      attempts,
		now:               time.Now,
		generateCode:      GenerateTeamCode,
	}
}

// GenerateTeamCode returns a random invite code of uppercase letters and digits.
func GenerateTeamCode() (string, error) {
	limit := big.NewInt(int64(len(teamCodeAlphabet)))
	var b strings.Builder
	b.Grow(domain.TeamCodeLength)
	for i := 0; i < domain.TeamCodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(teamCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeTeamCode trims and upper-cases user supplied codes.
func NormalizeTeamCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CreateTeam validates input, allocates an unused team code and persists the team.
func (s *TeamService) CreateTeam(ctx context.Context, input TeamCreateInput) (_ *domain.Team, err error) {
	defer s.observe("create_team", time.Now(), &err)

	details := map[string]any{}
	if strings.TrimSpace(input.HackathonID) == "" {
		details["hackathonId"] = "required"
	}
	if strings.TrimSpace(input.HackathonName) == "" {
		details["hackathonName"] = "required"
	}
	if strings.TrimSpace(input.CreatedBy) == "" {
		details["createdBy"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("missing required team fields", details)
	}

	maxMembers := input.MaxMembers
	if maxMembers <= 0 {
		maxMembers = s.defaultMaxMembers
	}
	if len(input.Members) > maxMembers {
		return nil, apperrors.NewTeamFull("", maxMembers)
	}

	now := s.now().UTC()
	team := &domain.Team{
		ID:             s.teams.NewID(),
		Name:           strings.TrimSpace(input.Name),
		Description:    strings.TrimSpace(input.Description),
		HackathonID:    strings.TrimSpace(input.HackathonID),
		HackathonName:  strings.TrimSpace(input.HackathonName),
		RequiredSkills: append([]string{}, input.RequiredSkills...),
		MaxMembers:     maxMembers,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      strings.TrimSpace(input.CreatedBy),
		JoinRequests:   []string{},
		Invitations:    []string{},
	}
	for _, m := range input.Members {
		if m.ID == "" {
			return nil, apperrors.NewValidationError("member id required", nil)
		}
		if team.HasMember(m.ID) {
			return nil, apperrors.NewDuplicateMember(team.ID, m.ID)
		}
		team.AddMember(m)
	}
	team.Normalize()

	if err := s.insertWithUniqueCode(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info("team created",
		zap.String("team_id", team.ID),
		zap.String("team_code", team.TeamCode),
		zap.String("created_by", team.CreatedBy))
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTeamCreated,
		TeamID:  team.ID,
		ActorID: team.CreatedBy,
		Payload: events.TeamCreatedPayload{
			Name:        team.Name,
			HackathonID: team.HackathonID,
			TeamCode:    team.TeamCode,
			MaxMembers:  team.MaxMembers,
		},
	})
	return team, nil
}

func (s *TeamService) insertWithUniqueCode(ctx context.Context, team *domain.Team) error {
	for attempt := 1; attempt <= s.codeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return apperrors.NewInternalError(err)
		}

		if _, err := s.teams.GetByCode(ctx, code); err == nil {
			s.logger.Debug("team code collision", zap.String("team_code", code), zap.Int("attempt", attempt))
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return apperrors.MapError(err)
		}

		team.TeamCode = code
		err = s.teams.Create(ctx, team)
		if err == nil {
			return nil
		}
		if !errors.Is(err, docstore.ErrConflict) {
			return apperrors.MapError(err)
		}
		s.logger.Debug("team code taken on insert", zap.String("team_code", code), zap.Int("attempt", attempt))
	}
	return apperrors.NewConflict("could not allocate a unique team code", map[string]any{"attempts": s.codeAttempts})
}

// GetTeam returns a team or a NotFound error.
func (s *TeamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, s.mapTeamError(err, teamID)
	}
	return team, nil
}

// GetTeamByCode looks a team up by its invite code.
func (s *TeamService) GetTeamByCode(ctx context.Context, code string) (*domain.Team, error) {
	code = NormalizeTeamCode(code)
	if code == "" {
		return nil, apperrors.NewValidationError("team code required", nil)
	}
	team, err := s.teams.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_code": code})
		}
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// GetUserTeams lists the teams userID is a member of.
func (s *TeamService) GetUserTeams(ctx context.Context, userID string) ([]domain.Team, error) {
	teams, err := s.teams.ListByMember(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// GetAvailableTeams lists teams with at least one free slot.
func (s *TeamService) GetAvailableTeams(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	available := make([]domain.Team, 0, len(teams))
	for _, team := range teams {
		if !team.IsFull() {
			available = append(available, team)
		}
	}
	return available, nil
}

// SearchTeamsBySkills lists teams requiring at least one of skills.
func (s *TeamService) SearchTeamsBySkills(ctx context.Context, skills []string) ([]domain.Team, error) {
	wanted := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			wanted = append(wanted, skill)
		}
	}
	if len(wanted) == 0 {
		return nil, apperrors.NewValidationError("at least one skill required", nil)
	}
	teams, err := s.teams.ListByAnyRequiredSkill(ctx, wanted)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// GetTeamsWithJoinRequestFromUser lists teams where userID has a pending request.
func (s *TeamService) GetTeamsWithJoinRequestFromUser(ctx context.Context, userID string) ([]domain.Team, error) {
	teams, err := s.teams.ListByJoinRequest(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// UpdateTeam writes only the fields present in update.
func (s *TeamService) UpdateTeam(ctx context.Context, teamID string, update TeamUpdate) (_ *domain.Team, err error) {
	defer s.observe("update_team", time.Now(), &err)

	fields, err := update.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return s.GetTeam(ctx, teamID)
	}
	fields["updatedAt"] = s.now().UTC()

	if err := s.teams.Update(ctx, teamID, fields); err != nil {
		return nil, s.mapTeamError(err, teamID)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if name != "updatedAt" {
			names = append(names, name)
		}
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTeamUpdated,
		TeamID:  teamID,
		ActorID: ActorFromContext(ctx),
		Payload: events.TeamUpdatedPayload{Fields: names},
	})
	return s.GetTeam(ctx, teamID)
}

func (u TeamUpdate) fields() (map[string]any, error) {
	fields := map[string]any{}
	if u.Name != nil {
		fields["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		fields["description"] = strings.TrimSpace(*u.Description)
	}
	if u.HackathonID != nil {
		if strings.TrimSpace(*u.HackathonID) == "" {
			return nil, apperrors.NewValidationError("hackathonId cannot be empty", nil)
		}
		fields["hackathonId"] = strings.TrimSpace(*u.HackathonID)
	}
	if u.HackathonName != nil {
		if strings.TrimSpace(*u.HackathonName) == "" {
			return nil, apperrors.NewValidationError("hackathonName cannot be empty", nil)
		}
		fields["hackathonName"] = strings.TrimSpace(*u.HackathonName)
	}
	if u.RequiredSkills != nil {
		fields["requiredSkills"] = append([]string{}, (*u.RequiredSkills)...)
	}
	if u.MaxMembers != nil {
		if *u.MaxMembers < 1 {
			return nil, apperrors.NewValidationError("maxMembers must be positive", nil)
		}
		fields["maxMembers"] = *u.MaxMembers
	}
	return fields, nil
}

// DeleteTeam removes the team unconditionally. Deleting an absent team is a
// no-op and emits no event.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID string) (err error) {
	defer s.observe("delete_team", time.Now(), &err)

	deleted, err := s.teams.Delete(ctx, teamID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !deleted {
		return nil
	}
	s.logger.Info("team deleted", zap.String("team_id", teamID))
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTeamDeleted,
		TeamID:  teamID,
		ActorID: ActorFromContext(ctx),
	})
	return nil
}

// AddTeamMember appends member, rejecting duplicates and full teams. A pending
// join request from the same user is cleared.
func (s *TeamService) AddTeamMember(ctx context.Context, teamID string, member domain.TeamMember) (_ *domain.Team, err error) {
	defer s.observe("add_member", time.Now(), &err)

	team, err := s.admit(ctx, teamID, member)
	if err != nil {
		return nil, err
	}
	s.publishMembership(ctx, events.EventMemberAdded, team, member.ID)
	return team, nil
}

// AcceptJoinRequest moves member from the pending requests into the team.
func (s *TeamService) AcceptJoinRequest(ctx context.Context, teamID string, member domain.TeamMember) (_ *domain.Team, err error) {
	defer s.observe("accept_request", time.Now(), &err)

	team, err := s.admit(ctx, teamID, member)
	if err != nil {
		return nil, err
	}
	s.publishMembership(ctx, events.EventJoinAccepted, team, member.ID)
	return team, nil
}

func (s *TeamService) admit(ctx context.Context, teamID string, member domain.TeamMember) (*domain.Team, error) {
	if strings.TrimSpace(member.ID) == "" {
		return nil, apperrors.NewValidationError("member id required", nil)
	}
	team, err := s.teams.Mutate(ctx, teamID, func(team *domain.Team) (bool, error) {
		if team.HasMember(member.ID) {
			return false, apperrors.NewDuplicateMember(team.ID, member.ID)
		}
		if team.IsFull() {
			return false, apperrors.NewTeamFull(team.ID, team.MaxMembers)
		}
		team.AddMember(member)
		team.RemoveJoinRequest(member.ID)
		team.UpdatedAt = s.now().UTC()
		return true, nil
	})
	if err != nil {
		return nil, s.mapTeamError(err, teamID)
	}
	return team, nil
}

// RemoveTeamMember drops memberID from the team. Removing an absent member is a no-op.
func (s *TeamService) RemoveTeamMember(ctx context.Context, teamID, memberID string) (_ *domain.Team, err error) {
	defer s.observe("remove_member", time.Now(), &err)

	removed := false
	team, err := s.teams.Mutate(ctx, teamID, func(team *domain.Team) (bool, error) {
		removed = team.RemoveMember(memberID)
		if removed {
			team.UpdatedAt = s.now().UTC()
		}
		return removed, nil
	})
	if err != nil {
		return nil, s.mapTeamError(err, teamID)
	}
	if removed {
		s.publishMembership(ctx, events.EventMemberRemoved, team, memberID)
	}
	return team, nil
}

// AddJoinRequest records a pending request from userID. Repeating a request
// is a no-op; members cannot request to join their own team. A request filed
// this way needs the lead to accept it.
func (s *TeamService) AddJoinRequest(ctx context.Context, teamID, userID string) (_ *domain.Team, err error) {
	defer s.observe("add_request", time.Now(), &err)
	return s.fileRequest(ctx, teamID, userID, (*domain.Team).AddJoinRequest)
}

// InviteToTeam files a pending request on userID's behalf. The invited user
// may accept it themself.
func (s *TeamService) InviteToTeam(ctx context.Context, teamID, userID string) (_ *domain.Team, err error) {
	defer s.observe("invite", time.Now(), &err)
	return s.fileRequest(ctx, teamID, userID, (*domain.Team).Invite)
}

func (s *TeamService) fileRequest(ctx context.Context, teamID, userID string, record func(*domain.Team, string) bool) (*domain.Team, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.NewValidationError("user id required", nil)
	}
	added := false
	team, err := s.teams.Mutate(ctx, teamID, func(team *domain.Team) (bool, error) {
		if team.HasMember(userID) {
			return false, apperrors.NewDuplicateMember(team.ID, userID)
		}
		added = record(team, userID)
		if added {
			team.UpdatedAt = s.now().UTC()
		}
		return added, nil
	})
	if err != nil {
		return nil, s.mapTeamError(err, teamID)
	}
	if added {
		s.publishMembership(ctx, events.EventJoinRequested, team, userID)
	}
	return team, nil
}

// RejectJoinRequest drops the pending request from userID. Rejecting an
// absent request is a no-op.
func (s *TeamService) RejectJoinRequest(ctx context.Context, teamID, userID string) (_ *domain.Team, err error) {
	defer s.observe("reject_request", time.Now(), &err)

	removed := false
	team, err := s.teams.Mutate(ctx, teamID, func(team *domain.Team) (bool, error) {
		removed = team.RemoveJoinRequest(userID)
		if removed {
			team.UpdatedAt = s.now().UTC()
		}
		return removed, nil
	})
	if err != nil {
		return nil, s.mapTeamError(err, teamID)
	}
	if removed {
		s.publishMembership(ctx, events.EventJoinRejected, team, userID)
	}
	return team, nil
}

// JoinTeamByCode adds member directly to the team holding code.
func (s *TeamService) JoinTeamByCode(ctx context.Context, code string, member domain.TeamMember) (*domain.Team, error) {
	team, err := s.GetTeamByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.AddTeamMember(ctx, team.ID, member)
}

// RequireLead returns the team when userID created it and Forbidden otherwise.
func (s *TeamService) RequireLead(ctx context.Context, teamID, userID string) (*domain.Team, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsLead(userID) {
		return nil, apperrors.NewForbidden("only the team lead can perform this action")
	}
	return team, nil
}

// RequireLeadOrSelf allows the lead, or the subject acting on their own behalf.
func (s *TeamService) RequireLeadOrSelf(ctx context.Context, teamID, actorID, subjectID string) (*domain.Team, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.IsLead(actorID) && (actorID == "" || actorID != subjectID) {
		return nil, apperrors.NewForbidden("only the team lead or the user concerned can perform this action")
	}
	return team, nil
}

// ReconcileMembers refreshes the name, avatar and skills snapshot of every
// member from the current profiles. Members without a profile are kept as is.
func (s *TeamService) ReconcileMembers(ctx context.Context, teamID string) (_ *domain.Team, err error) {
	defer s.observe("reconcile_members", time.Now(), &err)

	current, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	snapshots := make(map[string]domain.TeamMember, len(current.Members))
	for _, m := range current.Members {
		profile, err := s.profiles.GetByID(ctx, m.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, apperrors.MapError(err)
		}
		snapshots[m.ID] = profile.TeamMember(m.ID, m.Role)
	}

	team, err := s.teams.Mutate(ctx, teamID, func(team *domain.Team) (bool, error) {
		changed := false
		for i, m := range team.Members {
			fresh, ok := snapshots[m.ID]
			if !ok {
				continue
			}
			if fresh.Name == "" {
				fresh.Name = m.Name
			}
			if fresh.Name != m.Name || fresh.Avatar != m.Avatar || !slices.Equal(fresh.Skills, m.Skills) {
				team.Members[i].Name = fresh.Name
				team.Members[i].Avatar = fresh.Avatar
				team.Members[i].Skills = fresh.Skills
				changed = true
			}
		}
		if changed {
			team.UpdatedAt = s.now().UTC()
		}
		return changed, nil
	})
	if err != nil {
		return nil, s.mapTeamError(err, teamID)
	}
	return team, nil
}

func (s *TeamService) mapTeamError(err error, teamID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
	}
	return apperrors.MapError(err)
}

func (s *TeamService) observe(op string, start time.Time, errp *error) {
	s.metrics.ObserveTeamOp(op, start, *errp)
}

func (s *TeamService) publishMembership(ctx context.Context, eventType events.EventType, team *domain.Team, userID string) {
	s.publishEvent(ctx, events.Event{
		Type:    eventType,
		TeamID:  team.ID,
		ActorID: ActorFromContext(ctx),
		Payload: events.MembershipPayload{
			UserID:      userID,
			MemberCount: len(team.Members),
			MaxMembers:  team.MaxMembers,
		},
	})
}

func (s *TeamService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
