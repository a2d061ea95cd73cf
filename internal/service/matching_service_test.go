package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/matching"
	"github.com/Rupeshkotha/Hackhub/internal/observability"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

func newMatchingFixture(t *testing.T) (*fixture, *MatchingService) {
	t.Helper()
	f := newFixture(t)
	svc := NewMatchingService(MatchingDependencies{
		Teams:      f.teams,
		Candidates: NewProfileService(f.profiles, nil, nil),
		Sessions:   matching.NewMemorySessionStore(time.Hour),
		Metrics:    observability.NewMetrics(),
	})
	return f, svc
}

func (f *fixture) saveProfile(t *testing.T, userID, name string, skills ...string) {
	t.Helper()
	p := &domain.UserProfile{Name: name}
	for _, s := range skills {
		p.TechnicalSkills = append(p.TechnicalSkills, domain.Skill{Name: s})
	}
	require.NoError(t, f.profiles.Save(context.Background(), userID, p))
}

func TestMatchingService_ComputeMatches(t *testing.T) {
	f, svc := newMatchingFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, func(in *TeamCreateInput) { in.RequiredSkills = []string{"React", "Node.js", "Figma"} })

	f.saveProfile(t, "lead", "Lena", "React", "Node.js", "Figma")
	f.saveProfile(t, "u1", "One", "React")
	f.saveProfile(t, "u2", "Two", "React", "Figma")
	f.saveProfile(t, "u3", "Three", "Go")
	f.saveProfile(t, "u4", "Four")

	matches, err := svc.ComputeMatches(ctx, team.ID, "")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, "u2", matches[0].Candidate.UserID)
	require.Equal(t, []string{"React", "Figma"}, matches[0].Matched)
	require.Equal(t, "u1", matches[1].Candidate.UserID)

	matches, err = svc.ComputeMatches(ctx, team.ID, "u2")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "u1", matches[0].Candidate.UserID)
}

func TestMatchingService_Preconditions(t *testing.T) {
	f, svc := newMatchingFixture(t)
	ctx := context.Background()

	bare := f.createTeam(t, func(in *TeamCreateInput) { in.RequiredSkills = nil })
	_, err := svc.ComputeMatches(ctx, bare.ID, "")
	requireCode(t, err, apperrors.CodeNoRequiredSkills)

	team := f.createTeam(t, func(in *TeamCreateInput) { in.RequiredSkills = []string{"Rust"} })
	f.saveProfile(t, "u1", "One", "rust")
	_, err = svc.ComputeMatches(ctx, team.ID, "")
	requireCode(t, err, apperrors.CodeNoMatches)

	_, err = svc.ComputeMatches(ctx, "missing", "")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestMatchingService_Session(t *testing.T) {
	f, svc := newMatchingFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, func(in *TeamCreateInput) { in.RequiredSkills = []string{"React"} })
	f.saveProfile(t, "u1", "One", "React")
	f.saveProfile(t, "u2", "Two", "React")

	_, err := svc.StartSession(ctx, team.ID, "stranger")
	requireCode(t, err, apperrors.CodeForbidden)

	session, err := svc.StartSession(ctx, team.ID, "lead")
	require.NoError(t, err)
	require.Len(t, session.Matches, 2)

	_, err = svc.GetSession(ctx, session.ID, "u1")
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = svc.GetSession(ctx, "missing", "lead")
	requireCode(t, err, apperrors.CodeNotFound)

	step, err := svc.Match(ctx, session.ID, "lead")
	require.NoError(t, err)
	require.Equal(t, "u1", step.Decided.Candidate.UserID)
	require.Equal(t, 1, step.Session.Cursor)

	stored, err := f.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, stored.JoinRequests)
	require.True(t, stored.IsInvited("u1"))

	step, err = svc.Skip(ctx, session.ID, "lead")
	require.NoError(t, err)
	require.Equal(t, "u2", step.Decided.Candidate.UserID)
	require.True(t, step.Session.Exhausted())

	stored, err = f.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, stored.JoinRequests)

	_, err = svc.Skip(ctx, session.ID, "lead")
	requireCode(t, err, apperrors.CodeConflict)

	step, err = svc.Reset(ctx, session.ID, "lead")
	require.NoError(t, err)
	require.Nil(t, step.Decided)
	require.Equal(t, 0, step.Session.Cursor)

	reloaded, err := svc.GetSession(ctx, session.ID, "lead")
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Remaining())
}

func TestMatchingService_MatchOnAcceptedCandidate(t *testing.T) {
	f, svc := newMatchingFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, func(in *TeamCreateInput) { in.RequiredSkills = []string{"React"} })
	f.saveProfile(t, "u1", "One", "React")

	session, err := svc.StartSession(ctx, team.ID, "lead")
	require.NoError(t, err)

	_, err = f.teams.AddTeamMember(ctx, team.ID, domain.TeamMember{ID: "u1"})
	require.NoError(t, err)

	step, err := svc.Match(ctx, session.ID, "lead")
	require.NoError(t, err)
	require.Equal(t, "u1", step.Decided.Candidate.UserID)
	require.True(t, step.Session.Exhausted())

	stored, err := f.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Empty(t, stored.JoinRequests)
	require.Empty(t, stored.Invitations)
}
