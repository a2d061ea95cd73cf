package matching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSession_Stepping(t *testing.T) {
	s := NewSession("t1", "lead", []Match{
		{Candidate: Candidate{UserID: "a"}},
		{Candidate: Candidate{UserID: "b"}},
	}, time.Now())
	require.NotEmpty(t, s.ID)
	require.Equal(t, 2, s.Remaining())

	cur, ok := s.Current()
	require.True(t, ok)
	require.Equal(t, "a", cur.Candidate.UserID)

	s.Advance()
	cur, ok = s.Current()
	require.True(t, ok)
	require.Equal(t, "b", cur.Candidate.UserID)

	s.Advance()
	s.Advance()
	_, ok = s.Current()
	require.False(t, ok)
	require.True(t, s.Exhausted())
	require.Equal(t, 2, s.Cursor)

	s.Reset()
	cur, ok = s.Current()
	require.True(t, ok)
	require.Equal(t, "a", cur.Candidate.UserID)
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute).(*memorySessionStore)
	now := time.Now()
	store.now = func() time.Time { return now }

	session := NewSession("t1", "lead", []Match{{Candidate: Candidate{UserID: "a"}, Percentage: 50}}, now)
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, session.TeamID, got.TeamID)
	require.Equal(t, 50.0, got.Matches[0].Percentage)

	got.Advance()
	stored, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, 0, stored.Cursor)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, session))
	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
}
