package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/repository"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

func TestActivityService_RecordAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewActivityService(repository.NewTeamActivityRepository(f.store), f.teams, nil)
	team := f.createTeam(t, nil)

	for i, e := range []events.Event{
		{ID: "e1", Type: events.EventTeamCreated, TeamID: team.ID, ActorID: "lead", Timestamp: fixedNow},
		{ID: "e2", Type: events.EventJoinRequested, TeamID: team.ID, ActorID: "u2", Timestamp: fixedNow,
			Payload: events.MembershipPayload{UserID: "u2", MemberCount: 1, MaxMembers: 4}},
		{ID: "e3", Type: events.EventJoinRejected, TeamID: team.ID, ActorID: "lead", Timestamp: fixedNow},
		{ID: "ignored", Type: events.EventProfileUpdated, ActorID: "u2"},
	} {
		require.NoError(t, svc.Record(ctx, e), "event %d", i)
	}

	entries, err := svc.ListTeamActivity(ctx, team.ID, "lead", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "join_requested", entries[1].Type)
	require.Equal(t, "u2", entries[1].Details["user_id"])
	require.Equal(t, fixedNow, entries[0].CreatedAt)

	recent, err := svc.ListTeamActivity(ctx, team.ID, "lead", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"e2", "e3"}, activityIDs(recent))

	_, err = svc.ListTeamActivity(ctx, team.ID, "u2", 0)
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = svc.ListTeamActivity(ctx, "missing", "lead", 0)
	requireCode(t, err, apperrors.CodeNotFound)
}

func activityIDs(entries []domain.TeamActivity) []string {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
