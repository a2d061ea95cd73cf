package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rupeshkotha/Hackhub/internal/config"
	"github.com/Rupeshkotha/Hackhub/internal/docstore"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/observability"
	"github.com/Rupeshkotha/Hackhub/internal/repository"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store    *docstore.MemoryStore
	teams    *TeamService
	profiles repository.ProfileRepository
	events   *recordingDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := docstore.NewMemoryStore().WithUniqueField("teams", "teamCode")
	profiles := repository.NewProfileRepository(store)
	dispatcher := &recordingDispatcher{}
	teams := NewTeamService(TeamDependencies{
		TeamRepo:    repository.NewTeamRepository(store),
		ProfileRepo: profiles,
		Dispatcher:  dispatcher,
		Metrics:     observability.NewMetrics(),
		Config:      config.TeamsConfig{DefaultMaxMembers: 4, CodeAttempts: 5},
	})
	teams.now = func() time.Time { return fixedNow }
	return &fixture{store: store, teams: teams, profiles: profiles, events: dispatcher}
}

func (f *fixture) createTeam(t *testing.T, edit func(in *TeamCreateInput)) *domain.Team {
	t.Helper()
	in := TeamCreateInput{
		Name:           "Byte Me",
		Description:    "we ship",
		HackathonID:    "hack-1",
		HackathonName:  "HackHub 2025",
		RequiredSkills: []string{"React", "Node.js"},
		CreatedBy:      "lead",
		Members:        []domain.TeamMember{{ID: "lead", Name: "Lena", Role: domain.TeamRoleLead}},
	}
	if edit != nil {
		edit(&in)
	}
	team, err := f.teams.CreateTeam(context.Background(), in)
	require.NoError(t, err)
	return team
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.HasCode(err, code), "want %s, got %v", code, err)
}

func TestCreateTeam_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(in *TeamCreateInput)
		field string
	}{
		{name: "hackathon id", edit: func(in *TeamCreateInput) { in.HackathonID = " " }, field: "hackathonId"},
		{name: "hackathon name", edit: func(in *TeamCreateInput) { in.HackathonName = "" }, field: "hackathonName"},
		{name: "created by", edit: func(in *TeamCreateInput) { in.CreatedBy = "" }, field: "createdBy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := TeamCreateInput{HackathonID: "h", HackathonName: "H", CreatedBy: "u"}
			tt.edit(&in)

			_, err := f.teams.CreateTeam(context.Background(), in)
			requireCode(t, err, apperrors.CodeValidation)
			require.Contains(t, apperrors.ToDomainError(err).Details, tt.field)

			all, err := f.teams.GetAvailableTeams(context.Background())
			require.NoError(t, err)
			require.Empty(t, all)
		})
	}
}

func TestCreateTeam_DefaultsAndRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	team, err := f.teams.CreateTeam(ctx, TeamCreateInput{
		Name:          "Solo",
		HackathonID:   "hack-1",
		HackathonName: "HackHub",
		CreatedBy:     "u1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, team.ID)
	require.Equal(t, domain.DefaultMaxMembers, team.MaxMembers)
	require.Equal(t, []domain.TeamMember{}, team.Members)
	require.Equal(t, []string{}, team.JoinRequests)
	require.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), team.TeamCode)
	require.Equal(t, fixedNow, team.CreatedAt)

	stored, err := f.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, team, stored)

	byCode, err := f.teams.GetTeamByCode(ctx, team.TeamCode)
	require.NoError(t, err)
	require.Equal(t, team.ID, byCode.ID)

	require.Equal(t, []events.EventType{events.EventTeamCreated}, f.events.types())
}

func TestCreateTeam_SeedsLead(t *testing.T) {
	f := newFixture(t)
	team := f.createTeam(t, nil)
	require.Len(t, team.Members, 1)
	require.Equal(t, domain.TeamRoleLead, team.Members[0].Role)
	require.Equal(t, []string{"lead"}, team.MemberIDs)
}

func TestGenerateTeamCode_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 200; i++ {
		code, err := GenerateTeamCode()
		require.NoError(t, err)
		require.Regexp(t, pattern, code)
	}
}

func TestCreateTeam_RetriesOnCodeCollision(t *testing.T) {
	f := newFixture(t)
	codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	f.teams.generateCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	first := f.createTeam(t, nil)
	second := f.createTeam(t, nil)
	require.Equal(t, "AAAAAA", first.TeamCode)
	require.Equal(t, "BBBBBB", second.TeamCode)
}

func TestCreateTeam_GivesUpAfterAttempts(t *testing.T) {
	f := newFixture(t)
	f.teams.generateCode = func() (string, error) { return "AAAAAA", nil }
	f.createTeam(t, nil)

	_, err := f.teams.CreateTeam(context.Background(), TeamCreateInput{HackathonID: "h", HackathonName: "H", CreatedBy: "u"})
	requireCode(t, err, apperrors.CodeConflict)
}

func TestGetTeam_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.teams.GetTeam(ctx, "missing")
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = f.teams.GetTeamByCode(ctx, "ZZZZZZ")
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = f.teams.GetTeamByCode(ctx, "  ")
	requireCode(t, err, apperrors.CodeValidation)
}

func TestGetTeamByCode_NormalizesInput(t *testing.T) {
	f := newFixture(t)
	team := f.createTeam(t, nil)

	got, err := f.teams.GetTeamByCode(context.Background(), "  "+strings.ToLower(team.TeamCode)+" ")
	require.NoError(t, err)
	require.Equal(t, team.ID, got.ID)
}

func TestUpdateTeam_OnlyPresentFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	later := fixedNow.Add(time.Hour)
	f.teams.now = func() time.Time { return later }

	name := "X"
	updated, err := f.teams.UpdateTeam(ctx, team.ID, TeamUpdate{Name: &name})
	require.NoError(t, err)

	want := *team
	want.Name = "X"
	want.UpdatedAt = later
	require.Equal(t, &want, updated)

	require.Equal(t, events.EventTeamUpdated, f.events.types()[1])
}

func TestUpdateTeam_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	name := "X"
	_, err := f.teams.UpdateTeam(ctx, "missing", TeamUpdate{Name: &name})
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = f.teams.UpdateTeam(ctx, "missing", TeamUpdate{})
	requireCode(t, err, apperrors.CodeNotFound)

	team := f.createTeam(t, nil)
	zero := 0
	_, err = f.teams.UpdateTeam(ctx, team.ID, TeamUpdate{MaxMembers: &zero})
	requireCode(t, err, apperrors.CodeValidation)

	empty := ""
	_, err = f.teams.UpdateTeam(ctx, team.ID, TeamUpdate{HackathonID: &empty})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestDeleteTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	require.NoError(t, f.teams.DeleteTeam(ctx, team.ID))
	require.NoError(t, f.teams.DeleteTeam(ctx, team.ID))
	require.NoError(t, f.teams.DeleteTeam(ctx, "never-existed"))

	_, err := f.teams.GetTeam(ctx, team.ID)
	requireCode(t, err, apperrors.CodeNotFound)
	require.Equal(t, []events.EventType{events.EventTeamCreated, events.EventTeamDeleted}, f.events.types())
}

func TestCapacityInvariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, func(in *TeamCreateInput) { in.MaxMembers = 3 })

	_, err := f.teams.AddTeamMember(ctx, team.ID, domain.TeamMember{ID: "u2"})
	require.NoError(t, err)
	_, err = f.teams.AcceptJoinRequest(ctx, team.ID, domain.TeamMember{ID: "u3"})
	require.NoError(t, err)

	_, err = f.teams.AddTeamMember(ctx, team.ID, domain.TeamMember{ID: "u4"})
	requireCode(t, err, apperrors.CodeTeamFull)
	_, err = f.teams.AcceptJoinRequest(ctx, team.ID, domain.TeamMember{ID: "u5"})
	requireCode(t, err, apperrors.CodeTeamFull)

	stored, err := f.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"lead", "u2", "u3"}, stored.MemberIDs)
}

func TestDuplicateInvariant(t *testing.T) {
	ops := []struct {
		name string
		call func(s *TeamService, teamID string, m domain.TeamMember) error
	}{
		{name: "add", call: func(s *TeamService, teamID string, m domain.TeamMember) error {
			_, err := s.AddTeamMember(context.Background(), teamID, m)
			return err
		}},
		{name: "accept", call: func(s *TeamService, teamID string, m domain.TeamMember) error {
			_, err := s.AcceptJoinRequest(context.Background(), teamID, m)
			return err
		}},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			f := newFixture(t)
			team := f.createTeam(t, nil)
			member := domain.TeamMember{ID: "u2", Name: "Ada"}

			require.NoError(t, op.call(f.teams, team.ID, member))
			requireCode(t, op.call(f.teams, team.ID, member), apperrors.CodeDuplicateMember)

			stored, err := f.teams.GetTeam(context.Background(), team.ID)
			require.NoError(t, err)
			require.Equal(t, []string{"lead", "u2"}, stored.MemberIDs)
		})
	}
}

func TestAddTeamMember_Defaults(t *testing.T) {
	f := newFixture(t)
	team := f.createTeam(t, nil)

	updated, err := f.teams.AddTeamMember(context.Background(), team.ID, domain.TeamMember{ID: "u2"})
	require.NoError(t, err)
	require.Equal(t, domain.TeamMember{ID: "u2", Name: "Anonymous", Role: domain.TeamRoleMember, Skills: []string{}}, updated.Members[1])

	_, err = f.teams.AddTeamMember(context.Background(), team.ID, domain.TeamMember{})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestAcceptAndRejectKeepRequestsDisjoint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	_, err := f.teams.AddJoinRequest(ctx, team.ID, "u2")
	require.NoError(t, err)
	_, err = f.teams.AddJoinRequest(ctx, team.ID, "u3")
	require.NoError(t, err)

	accepted, err := f.teams.AcceptJoinRequest(ctx, team.ID, domain.TeamMember{ID: "u2", Name: "Ada"})
	require.NoError(t, err)
	require.True(t, accepted.HasMember("u2"))
	require.False(t, accepted.HasJoinRequest("u2"))

	rejected, err := f.teams.RejectJoinRequest(ctx, team.ID, "u3")
	require.NoError(t, err)
	require.False(t, rejected.HasJoinRequest("u3"))
	require.False(t, rejected.HasMember("u3"))

	require.Equal(t, []events.EventType{
		events.EventTeamCreated,
		events.EventJoinRequested,
		events.EventJoinRequested,
		events.EventJoinAccepted,
		events.EventJoinRejected,
	}, f.events.types())
}

func TestAddJoinRequest_SetSemantics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	_, err := f.teams.AddJoinRequest(ctx, team.ID, "u2")
	require.NoError(t, err)
	again, err := f.teams.AddJoinRequest(ctx, team.ID, "u2")
	require.NoError(t, err)
	require.Equal(t, []string{"u2"}, again.JoinRequests)

	_, err = f.teams.AddJoinRequest(ctx, team.ID, "lead")
	requireCode(t, err, apperrors.CodeDuplicateMember)

	_, err = f.teams.AddJoinRequest(ctx, "missing", "u2")
	requireCode(t, err, apperrors.CodeNotFound)

	pending, err := f.teams.GetTeamsWithJoinRequestFromUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, team.ID, pending[0].ID)
}

func TestInviteToTeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	_, err := f.teams.AddJoinRequest(ctx, team.ID, "self")
	require.NoError(t, err)
	invited, err := f.teams.InviteToTeam(ctx, team.ID, "cand")
	require.NoError(t, err)
	require.Equal(t, []string{"self", "cand"}, invited.JoinRequests)
	require.Equal(t, []string{"cand"}, invited.Invitations)

	again, err := f.teams.InviteToTeam(ctx, team.ID, "cand")
	require.NoError(t, err)
	require.Equal(t, []string{"cand"}, again.Invitations)

	_, err = f.teams.InviteToTeam(ctx, team.ID, "lead")
	requireCode(t, err, apperrors.CodeDuplicateMember)

	accepted, err := f.teams.AcceptJoinRequest(ctx, team.ID, domain.TeamMember{ID: "cand"})
	require.NoError(t, err)
	require.Equal(t, []string{"self"}, accepted.JoinRequests)
	require.Empty(t, accepted.Invitations)

	stored, err := f.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.False(t, stored.IsInvited("self"))
}

func TestAddTeamMember_ClearsPendingRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	_, err := f.teams.AddJoinRequest(ctx, team.ID, "u2")
	require.NoError(t, err)
	updated, err := f.teams.AddTeamMember(ctx, team.ID, domain.TeamMember{ID: "u2"})
	require.NoError(t, err)
	require.Empty(t, updated.JoinRequests)
}

func TestIdempotentRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	before, err := f.store.Get(ctx, "teams", team.ID)
	require.NoError(t, err)

	f.teams.now = func() time.Time { return fixedNow.Add(time.Hour) }
	_, err = f.teams.RemoveTeamMember(ctx, team.ID, "ghost")
	require.NoError(t, err)
	_, err = f.teams.RejectJoinRequest(ctx, team.ID, "ghost")
	require.NoError(t, err)

	after, err := f.store.Get(ctx, "teams", team.ID)
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Equal(t, []events.EventType{events.EventTeamCreated}, f.events.types())

	_, err = f.teams.RemoveTeamMember(ctx, "missing", "ghost")
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = f.teams.RejectJoinRequest(ctx, "missing", "ghost")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestRemoveTeamMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)
	_, err := f.teams.AddTeamMember(ctx, team.ID, domain.TeamMember{ID: "u2"})
	require.NoError(t, err)

	updated, err := f.teams.RemoveTeamMember(ctx, team.ID, "u2")
	require.NoError(t, err)
	require.Equal(t, []string{"lead"}, updated.MemberIDs)

	mine, err := f.teams.GetUserTeams(ctx, "u2")
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestConcurrentAcceptsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, func(in *TeamCreateInput) { in.MaxMembers = 2 })

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.teams.AcceptJoinRequest(ctx, team.ID, domain.TeamMember{ID: fmt.Sprintf("u%d", i)})
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		requireCode(t, err, apperrors.CodeTeamFull)
	}
	require.Equal(t, 1, admitted)

	stored, err := f.teams.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, stored.Members, 2)
}

func TestListings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	open := f.createTeam(t, func(in *TeamCreateInput) { in.RequiredSkills = []string{"Go"} })
	full := f.createTeam(t, func(in *TeamCreateInput) {
		in.MaxMembers = 1
		in.RequiredSkills = []string{"Figma"}
		in.CreatedBy = "other"
		in.Members = []domain.TeamMember{{ID: "other"}}
	})

	available, err := f.teams.GetAvailableTeams(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, open.ID, available[0].ID)

	mine, err := f.teams.GetUserTeams(ctx, "other")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, full.ID, mine[0].ID)

	found, err := f.teams.SearchTeamsBySkills(ctx, []string{" Figma ", "Rust"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, full.ID, found[0].ID)

	_, err = f.teams.SearchTeamsBySkills(ctx, []string{" "})
	requireCode(t, err, apperrors.CodeValidation)
}

func TestJoinTeamByCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	joined, err := f.teams.JoinTeamByCode(ctx, strings.ToLower(team.TeamCode), domain.TeamMember{ID: "u2", Name: "Ada"})
	require.NoError(t, err)
	require.True(t, joined.HasMember("u2"))

	_, err = f.teams.JoinTeamByCode(ctx, "NOPE00", domain.TeamMember{ID: "u3"})
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestAuthorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)

	_, err := f.teams.RequireLead(ctx, team.ID, "lead")
	require.NoError(t, err)
	_, err = f.teams.RequireLead(ctx, team.ID, "u2")
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = f.teams.RequireLead(ctx, "missing", "lead")
	requireCode(t, err, apperrors.CodeNotFound)

	_, err = f.teams.RequireLeadOrSelf(ctx, team.ID, "u2", "u2")
	require.NoError(t, err)
	_, err = f.teams.RequireLeadOrSelf(ctx, team.ID, "lead", "u2")
	require.NoError(t, err)
	_, err = f.teams.RequireLeadOrSelf(ctx, team.ID, "u3", "u2")
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = f.teams.RequireLeadOrSelf(ctx, team.ID, "", "")
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestReconcileMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	team := f.createTeam(t, nil)
	_, err := f.teams.AddTeamMember(ctx, team.ID, domain.TeamMember{ID: "u2"})
	require.NoError(t, err)
	_, err = f.teams.AddTeamMember(ctx, team.ID, domain.TeamMember{ID: "u3", Name: "Kept"})
	require.NoError(t, err)

	require.NoError(t, f.profiles.Save(ctx, "u2", &domain.UserProfile{
		Name:            "Ada",
		ProfilePicture:  "ada.png",
		TechnicalSkills: []domain.Skill{{Name: "Go"}},
	}))

	reconciled, err := f.teams.ReconcileMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TeamMember{ID: "u2", Name: "Ada", Avatar: "ada.png", Role: domain.TeamRoleMember, Skills: []string{"Go"}}, reconciled.Members[1])
	require.Equal(t, "Kept", reconciled.Members[2].Name)
	require.Equal(t, "Lena", reconciled.Members[0].Name)

	_, err = f.teams.ReconcileMembers(ctx, "missing")
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestEventsCarryActor(t *testing.T) {
	f := newFixture(t)
	team := f.createTeam(t, nil)

	ctx := WithActor(context.Background(), "lead")
	_, err := f.teams.AddTeamMember(ctx, team.ID, domain.TeamMember{ID: "u2"})
	require.NoError(t, err)

	last := f.events.events[len(f.events.events)-1]
	require.Equal(t, events.EventMemberAdded, last.Type)
	require.Equal(t, "lead", last.ActorID)
	require.Equal(t, team.ID, last.TeamID)
	require.NotEmpty(t, last.ID)
	require.Equal(t, events.MembershipPayload{UserID: "u2", MemberCount: 2, MaxMembers: 4}, last.Payload)
}
