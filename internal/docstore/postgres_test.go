package docstore

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name      string
		preds     []Predicate
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "collection only",
			wantWhere: "collection=$1",
			wantArgs:  []any{"teams"},
		},
		{
			name:      "equals",
			preds:     []Predicate{Equals("teamCode", "ABC123")},
			wantWhere: "collection=$1 AND data @> $2::jsonb",
			wantArgs:  []any{"teams", `{"teamCode":"ABC123"}`},
		},
		{
			name:      "array contains",
			preds:     []Predicate{ArrayContains("memberIds", "u1")},
			wantWhere: "collection=$1 AND data @> $2::jsonb",
			wantArgs:  []any{"teams", `{"memberIds":["u1"]}`},
		},
		{
			name:      "array contains any",
			preds:     []Predicate{ArrayContainsAny("requiredSkills", "Go", "React")},
			wantWhere: "collection=$1 AND (data @> $2::jsonb OR data @> $3::jsonb)",
			wantArgs:  []any{"teams", `{"requiredSkills":["Go"]}`, `{"requiredSkills":["React"]}`},
		},
		{
			name:      "array contains any empty",
			preds:     []Predicate{ArrayContainsAny("requiredSkills")},
			wantWhere: "collection=$1 AND FALSE",
			wantArgs:  []any{"teams"},
		},
		{
			name:      "conjunction",
			preds:     []Predicate{ArrayContains("joinRequests", "u2"), Equals("hackathonId", "h1")},
			wantWhere: "collection=$1 AND data @> $2::jsonb AND data @> $3::jsonb",
			wantArgs:  []any{"teams", `{"joinRequests":["u2"]}`, `{"hackathonId":"h1"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args, err := buildFilter("teams", tt.preds)
			require.NoError(t, err)
			require.Equal(t, tt.wantWhere, where)
			require.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildFilter_InvalidPredicate(t *testing.T) {
	_, _, err := buildFilter("teams", []Predicate{{Field: "", Op: OpEquals}})
	require.Error(t, err)
}

func TestMapPgError(t *testing.T) {
	require.NoError(t, mapPgError(nil))
	require.ErrorIs(t, mapPgError(pgx.ErrNoRows), ErrNotFound)
	require.ErrorIs(t, mapPgError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "uq_documents_team_code"}), ErrConflict)

	other := errors.New("connection reset")
	require.ErrorIs(t, mapPgError(other), other)
}
