package domain

import (
	"slices"
	"time"
)

// TeamRole labels a member's position inside a team.
type TeamRole string

const (
	TeamRoleLead   TeamRole = "Team Lead"
	TeamRoleMember TeamRole = "Member"
)

const (
	// DefaultMaxMembers applies when a team is created without a capacity.
	DefaultMaxMembers = 4
	// DefaultMemberName applies when a member is added without a name.
	DefaultMemberName = "Anonymous"
	// TeamCodeLength is the length of generated invite codes.
	TeamCodeLength = 6
)

// TeamMember is a denormalized snapshot of a user inside a team.
type TeamMember struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Avatar string   `json:"avatar,omitempty"`
	Role   TeamRole `json:"role"`
	Skills []string `json:"skills"`
}

// Team is a hackathon team stored in the teams collection.
type Team struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	HackathonID    string       `json:"hackathonId"`
	HackathonName  string       `json:"hackathonName"`
	TeamCode       string       `json:"teamCode"`
	Members        []TeamMember `json:"members"`
	MemberIDs      []string     `json:"memberIds"`
	RequiredSkills []string     `json:"requiredSkills"`
	MaxMembers     int          `json:"maxMembers"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
	CreatedBy      string       `json:"createdBy"`
	JoinRequests   []string     `json:"joinRequests"`
	// Invitations holds the pending requests filed on the user's behalf by a
	// teammate or a match. Always a subset of JoinRequests.
	Invitations []string `json:"invitations"`
}

// HasMember reports whether userID is in the member list.
func (t *Team) HasMember(userID string) bool {
	return t.memberIndex(userID) >= 0
}

// HasJoinRequest reports whether userID has a pending request.
func (t *Team) HasJoinRequest(userID string) bool {
	return slices.Contains(t.JoinRequests, userID)
}

// IsInvited reports whether userID's pending request was filed by someone else.
func (t *Team) IsInvited(userID string) bool {
	return slices.Contains(t.Invitations, userID)
}

// Invite records a pending request from userID filed on their behalf and
// reports whether anything changed.
func (t *Team) Invite(userID string) bool {
	added := t.AddJoinRequest(userID)
	if t.IsInvited(userID) {
		return added
	}
	t.Invitations = append(t.Invitations, userID)
	return true
}

// IsFull reports whether the team reached its capacity.
func (t *Team) IsFull() bool {
	return len(t.Members) >= t.MaxMembers
}

// IsLead reports whether userID created the team.
func (t *Team) IsLead(userID string) bool {
	return userID != "" && t.CreatedBy == userID
}

// AddMember appends m and keeps MemberIDs aligned with Members.
func (t *Team) AddMember(m TeamMember) {
	if m.Name == "" {
		m.Name = DefaultMemberName
	}
	if m.Role == "" {
		m.Role = TeamRoleMember
	}
	if m.Skills == nil {
		m.Skills = []string{}
	}
	t.Members = append(t.Members, m)
	t.syncMemberIDs()
}

// RemoveMember drops userID from the member list and reports whether it was present.
func (t *Team) RemoveMember(userID string) bool {
	idx := t.memberIndex(userID)
	if idx < 0 {
		return false
	}
	t.Members = append(t.Members[:idx], t.Members[idx+1:]...)
	t.syncMemberIDs()
	return true
}

// AddJoinRequest records userID as a pending requester and reports whether it was added.
func (t *Team) AddJoinRequest(userID string) bool {
	if t.HasJoinRequest(userID) {
		return false
	}
	t.JoinRequests = append(t.JoinRequests, userID)
	return true
}

// RemoveJoinRequest drops userID from the pending requests, along with any
// invitation, and reports whether a request was present.
func (t *Team) RemoveJoinRequest(userID string) bool {
	t.Invitations = slices.DeleteFunc(t.Invitations, func(id string) bool { return id == userID })
	before := len(t.JoinRequests)
	t.JoinRequests = slices.DeleteFunc(t.JoinRequests, func(id string) bool { return id == userID })
	return len(t.JoinRequests) != before
}

// Normalize replaces nil collections with empty ones.
func (t *Team) Normalize() {
	if t.Members == nil {
		t.Members = []TeamMember{}
	}
	if t.RequiredSkills == nil {
		t.RequiredSkills = []string{}
	}
	if t.JoinRequests == nil {
		t.JoinRequests = []string{}
	}
	if t.Invitations == nil {
		t.Invitations = []string{}
	}
	for i := range t.Members {
		if t.Members[i].Skills == nil {
			t.Members[i].Skills = []string{}
		}
	}
	t.syncMemberIDs()
}

func (t *Team) memberIndex(userID string) int {
	for i, m := range t.Members {
		if m.ID == userID {
			return i
		}
	}
	return -1
}

func (t *Team) syncMemberIDs() {
	ids := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.ID)
	}
	t.MemberIDs = ids
}
