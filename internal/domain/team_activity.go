package domain

import "time"

// TeamActivity is an immutable audit trail entry for a team.
type TeamActivity struct {
	ID        string         `json:"id"`
	TeamID    string         `json:"teamId"`
	Type      string         `json:"type"`
	ActorID   string         `json:"actorId,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
