package matching

import (
	"time"

	"github.com/google/uuid"
)

// Session is a snapshot of ranked matches that a caller steps through.
// The snapshot is never recomputed; starting a new session does that.
type Session struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"teamId"`
	OwnerID   string    `json:"ownerId"`
	Matches   []Match   `json:"matches"`
	Cursor    int       `json:"cursor"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession wraps matches in a session positioned at the first match.
func NewSession(teamID, ownerID string, matches []Match, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		OwnerID:   ownerID,
		Matches:   matches,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Current returns the match under the cursor.
func (s *Session) Current() (Match, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Matches) {
		return Match{}, false
	}
	return s.Matches[s.Cursor], true
}

// Advance moves past the current match.
func (s *Session) Advance() {
	if s.Cursor < len(s.Matches) {
		s.Cursor++
	}
}

// Reset moves the cursor back to the first match.
func (s *Session) Reset() {
	s.Cursor = 0
}

// Remaining is the number of matches not yet decided.
func (s *Session) Remaining() int {
	if s.Cursor >= len(s.Matches) {
		return 0
	}
	return len(s.Matches) - s.Cursor
}

// Exhausted reports whether every match was decided.
func (s *Session) Exhausted() bool {
	return s.Remaining() == 0
}
