package dto

import (
	"time"

	"github.com/Rupeshkotha/Hackhub/internal/matching"
)

// SessionResponse describes a match session and its cursor.
type SessionResponse struct {
	ID        string           `json:"id"`
	TeamID    string           `json:"teamId"`
	Matches   []matching.Match `json:"matches"`
	Cursor    int              `json:"cursor"`
	Remaining int              `json:"remaining"`
	Current   *matching.Match  `json:"current"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// StepResponse is returned by match, skip and reset.
type StepResponse struct {
	Session SessionResponse `json:"session"`
	Decided *matching.Match `json:"decided,omitempty"`
}

// NewSessionResponse builds the response for session.
func NewSessionResponse(session *matching.Session) SessionResponse {
	resp := SessionResponse{
		ID:        session.ID,
		TeamID:    session.TeamID,
		Matches:   session.Matches,
		Cursor:    session.Cursor,
		Remaining: session.Remaining(),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	if current, ok := session.Current(); ok {
		resp.Current = &current
	}
	return resp
}
