package dto

import "github.com/Rupeshkotha/Hackhub/internal/domain"

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	HackathonID    string   `json:"hackathonId"`
	HackathonName  string   `json:"hackathonName"`
	RequiredSkills []string `json:"requiredSkills"`
	MaxMembers     *int     `json:"maxMembers"`
}

// UpdateTeamRequest payload. Absent fields are left unchanged.
type UpdateTeamRequest struct {
	Name           *string   `json:"name"`
	Description    *string   `json:"description"`
	HackathonID    *string   `json:"hackathonId"`
	HackathonName  *string   `json:"hackathonName"`
	RequiredSkills *[]string `json:"requiredSkills"`
	MaxMembers     *int      `json:"maxMembers"`
}

// AddMemberRequest payload for a lead adding a member directly.
type AddMemberRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// JoinByCodeRequest payload.
type JoinByCodeRequest struct {
	Code string `json:"code"`
}

// TeamResponse is a team plus derived capacity fields.
type TeamResponse struct {
	*domain.Team
	MemberCount int  `json:"memberCount"`
	OpenSlots   int  `json:"openSlots"`
	Full        bool `json:"isFull"`
}

// NewTeamResponse builds the response for team.
func NewTeamResponse(team *domain.Team) TeamResponse {
	open := team.MaxMembers - len(team.Members)
	if open < 0 {
		open = 0
	}
	return TeamResponse{
		Team:        team,
		MemberCount: len(team.Members),
		OpenSlots:   open,
		Full:        team.IsFull(),
	}
}

// NewTeamResponses builds responses for a team listing.
func NewTeamResponses(teams []domain.Team) []TeamResponse {
	items := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, NewTeamResponse(&teams[i]))
	}
	return items
}
