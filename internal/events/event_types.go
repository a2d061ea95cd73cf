package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTeamCreated   EventType = "team_created"
	EventTeamUpdated   EventType = "team_updated"
	EventTeamDeleted   EventType = "team_deleted"
	EventMemberAdded   EventType = "member_added"
	EventMemberRemoved EventType = "member_removed"
	EventJoinRequested EventType = "join_requested"
	EventJoinAccepted  EventType = "join_accepted"
	EventJoinRejected  EventType = "join_rejected"

	EventProfileUpdated EventType = "profile_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TeamID    string    `json:"team_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TeamCreatedPayload payload.
type TeamCreatedPayload struct {
	Name        string `json:"name"`
	HackathonID string `json:"hackathon_id"`
	TeamCode    string `json:"team_code"`
	MaxMembers  int    `json:"max_members"`
}

// TeamUpdatedPayload lists the fields that were written.
type TeamUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// MembershipPayload describes a change affecting a single user.
type MembershipPayload struct {
	UserID      string `json:"user_id"`
	MemberCount int    `json:"member_count"`
	MaxMembers  int    `json:"max_members"`
}

// ProfileUpdatedPayload identifies the user whose profile changed.
type ProfileUpdatedPayload struct {
	UserID string `json:"user_id"`
}
