package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/matching"
	"github.com/Rupeshkotha/Hackhub/internal/observability"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

// Match session decisions.
const (
	DecisionMatch = "match"
	DecisionSkip  = "skip"
	DecisionReset = "reset"
)

// CandidateSource supplies the profiles the matcher ranks.
type CandidateSource interface {
	ListCandidates(ctx context.Context) ([]domain.UserProfile, error)
}

// MatchingService runs the skill matcher and the match/skip stepper.
type MatchingService struct {
	teams    *TeamService
	profiles CandidateSource
	sessions matching.SessionStore
	metrics  *observability.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// MatchingDependencies bundles collaborators for the matching service.
type MatchingDependencies struct {
	Teams      *TeamService
	Candidates CandidateSource
	Sessions   matching.SessionStore
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// StepResult is the outcome of a session step.
type StepResult struct {
	Session *matching.Session
	Decided *matching.Match
}

// NewMatchingService constructs the service.
func NewMatchingService(deps MatchingDependencies) *MatchingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchingService{
		teams:    deps.Teams,
		profiles: deps.Candidates,
		sessions: deps.Sessions,
		metrics:  deps.Metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// ComputeMatches ranks every stored profile against the team.
func (s *MatchingService) ComputeMatches(ctx context.Context, teamID, excludeUserID string) (_ []matching.Match, err error) {
	defer s.observe("compute_matches", time.Now(), &err)

	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if len(team.RequiredSkills) == 0 {
		return nil, apperrors.NewNoRequiredSkills(team.ID)
	}

	profiles, err := s.profiles.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}
	pool := make([]matching.Candidate, 0, len(profiles))
	for _, p := range profiles {
		pool = append(pool, matching.CandidateFromProfile(p))
	}
	return matching.ComputeMatches(team, pool, excludeUserID)
}

// StartSession snapshots the current matches for a team member to step through.
func (s *MatchingService) StartSession(ctx context.Context, teamID, ownerID string) (*matching.Session, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(ownerID) && !team.IsLead(ownerID) {
		return nil, apperrors.NewForbidden("only team members can search for matches")
	}

	matches, err := s.ComputeMatches(ctx, teamID, ownerID)
	if err != nil {
		return nil, err
	}

	session := matching.NewSession(teamID, ownerID, matches, s.now().UTC())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("match session started",
		zap.String("session_id", session.ID),
		zap.String("team_id", teamID),
		zap.Int("matches", len(matches)))
	return session, nil
}

// GetSession returns the session owned by ownerID.
func (s *MatchingService) GetSession(ctx context.Context, sessionID, ownerID string) (*matching.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, matching.ErrSessionNotFound) {
			return nil, apperrors.NewNotFound("match session", map[string]any{"session_id": sessionID})
		}
		return nil, apperrors.MapError(err)
	}
	if session.OwnerID != ownerID {
		return nil, apperrors.NewForbidden("match session belongs to another user")
	}
	return session, nil
}

// Match invites the current candidate and advances. A candidate who joined
// the team after the session started is passed over without an invitation.
func (s *MatchingService) Match(ctx context.Context, sessionID, ownerID string) (*StepResult, error) {
	return s.step(ctx, sessionID, ownerID, DecisionMatch, func(session *matching.Session, current matching.Match) error {
		_, err := s.teams.InviteToTeam(ctx, session.TeamID, current.Candidate.UserID)
		if apperrors.HasCode(err, apperrors.CodeDuplicateMember) {
			s.logger.Debug("candidate already a member",
				zap.String("session_id", session.ID),
				zap.String("candidate_id", current.Candidate.UserID))
			return nil
		}
		return err
	})
}

// Skip advances past the current candidate without side effects.
func (s *MatchingService) Skip(ctx context.Context, sessionID, ownerID string) (*StepResult, error) {
	return s.step(ctx, sessionID, ownerID, DecisionSkip, nil)
}

// Reset moves the session back to the first candidate.
func (s *MatchingService) Reset(ctx context.Context, sessionID, ownerID string) (*StepResult, error) {
	session, err := s.GetSession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	session.Reset()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.metrics.RecordMatchDecision(DecisionReset)
	return &StepResult{Session: session}, nil
}

func (s *MatchingService) step(ctx context.Context, sessionID, ownerID, decision string, action func(*matching.Session, matching.Match) error) (*StepResult, error) {
	session, err := s.GetSession(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	current, ok := session.Current()
	if !ok {
		return nil, apperrors.NewConflict("no candidates left in this session", map[string]any{"session_id": sessionID})
	}
	if action != nil {
		if err := action(session, current); err != nil {
			return nil, err
		}
	}
	session.Advance()
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.metrics.RecordMatchDecision(decision)
	s.logger.Debug("match session step",
		zap.String("session_id", session.ID),
		zap.String("decision", decision),
		zap.String("candidate_id", current.Candidate.UserID))
	return &StepResult{Session: session, Decided: &current}, nil
}

func (s *MatchingService) save(ctx context.Context, session *matching.Session) error {
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *MatchingService) observe(op string, start time.Time, errp *error) {
	s.metrics.ObserveTeamOp(op, start, *errp)
}
