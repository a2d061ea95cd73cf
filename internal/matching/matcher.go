// Package matching scores candidate profiles against a team's required skills
// and keeps the steppable result sessions.
package matching

import (
	"sort"

	"github.com/Rupeshkotha/Hackhub/internal/domain"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

// MatchThreshold is the minimum percentage a candidate needs to be suggested.
const MatchThreshold = 30.0

// Candidate is a user profile considered for a team.
type Candidate struct {
	UserID string         `json:"userId"`
	Name   string         `json:"name"`
	Avatar string         `json:"avatar,omitempty"`
	Title  string         `json:"title,omitempty"`
	Bio    string         `json:"bio,omitempty"`
	Skills []domain.Skill `json:"skills"`
}

// Match is a candidate together with the share of required skills they cover.
type Match struct {
	Candidate  Candidate `json:"candidate"`
	Percentage float64   `json:"percentage"`
	Matched    []string  `json:"matchedSkills"`
}

// CandidateFromProfile converts a stored profile.
func CandidateFromProfile(p domain.UserProfile) Candidate {
	return Candidate{
		UserID: p.ID,
		Name:   p.Name,
		Avatar: p.ProfilePicture,
		Title:  p.Title,
		Bio:    p.Bio,
		Skills: p.TechnicalSkills,
	}
}

// ComputeMatches ranks pool against team.RequiredSkills. Members of the team,
// excludeUserID and candidates without skills are never returned. Skill names
// are compared exactly. Ties keep the pool order.
func ComputeMatches(team *domain.Team, pool []Candidate, excludeUserID string) ([]Match, error) {
	if len(team.RequiredSkills) == 0 {
		return nil, apperrors.NewNoRequiredSkills(team.ID)
	}

	matches := make([]Match, 0)
	for _, candidate := range pool {
		if candidate.UserID == "" || candidate.UserID == excludeUserID || team.HasMember(candidate.UserID) {
			continue
		}
		if len(candidate.Skills) == 0 {
			continue
		}
		matched := matchedSkills(team.RequiredSkills, candidate.Skills)
		pct := 100 * float64(len(matched)) / float64(len(team.RequiredSkills))
		if pct < MatchThreshold {
			continue
		}
		matches = append(matches, Match{Candidate: candidate, Percentage: pct, Matched: matched})
	}

	if len(matches) == 0 {
		return nil, apperrors.NewNoMatches(team.ID)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Percentage > matches[j].Percentage
	})
	return matches, nil
}

func matchedSkills(required []string, skills []domain.Skill) []string {
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[s.Name] = struct{}{}
	}
	matched := make([]string, 0, len(required))
	for _, name := range required {
		if _, ok := have[name]; ok {
			matched = append(matched, name)
		}
	}
	return matched
}
