package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Rupeshkotha/Hackhub/internal/api/dto"
	"github.com/Rupeshkotha/Hackhub/internal/auth"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/service"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

// Team size bounds accepted from clients.
const (
	MinTeamSize = 2
	MaxTeamSize = 10
)

// TeamsHandler manages team registry endpoints.
type TeamsHandler struct {
	teams    *service.TeamService
	profiles *service.ProfileService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService, profileService *service.ProfileService) *TeamsHandler {
	return &TeamsHandler{teams: teamService, profiles: profileService}
}

// ClampTeamSize bounds a requested capacity to the supported range.
func ClampTeamSize(n int) int {
	if n < MinTeamSize {
		return MinTeamSize
	}
	if n > MaxTeamSize {
		return MaxTeamSize
	}
	return n
}

// CreateTeam POST /teams. The caller becomes the team lead.
func (h *TeamsHandler) CreateTeam(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required", map[string]any{"name": "required"})
	}

	lead, err := h.snapshot(ctx, principal, domain.TeamRoleLead)
	if err != nil {
		return err
	}
	input := service.TeamCreateInput{
		Name:           req.Name,
		Description:    req.Description,
		HackathonID:    req.HackathonID,
		HackathonName:  req.HackathonName,
		RequiredSkills: req.RequiredSkills,
		CreatedBy:      principal.AccountID,
		Members:        []domain.TeamMember{lead},
	}
	if req.MaxMembers != nil {
		input.MaxMembers = ClampTeamSize(*req.MaxMembers)
	}
	team, err := h.teams.CreateTeam(ctx, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// ListAvailable GET /teams.
func (h *TeamsHandler) ListAvailable(c *fiber.Ctx) error {
	_, ctx, err := actor(c)
	if err != nil {
		return err
	}
	teams, err := h.teams.GetAvailableTeams(ctx)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponses(teams)})
}

// ListMine GET /teams/mine.
func (h *TeamsHandler) ListMine(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	teams, err := h.teams.GetUserTeams(ctx, principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponses(teams)})
}

// ListMyRequests GET /teams/requests/mine.
func (h *TeamsHandler) ListMyRequests(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	teams, err := h.teams.GetTeamsWithJoinRequestFromUser(ctx, principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponses(teams)})
}

// Search GET /teams/search?skills=a,b.
func (h *TeamsHandler) Search(c *fiber.Ctx) error {
	_, ctx, err := actor(c)
	if err != nil {
		return err
	}
	teams, err := h.teams.SearchTeamsBySkills(ctx, strings.Split(c.Query("skills"), ","))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponses(teams)})
}

// GetByCode GET /teams/code/:code.
func (h *TeamsHandler) GetByCode(c *fiber.Ctx) error {
	_, ctx, err := actor(c)
	if err != nil {
		return err
	}
	team, err := h.teams.GetTeamByCode(ctx, c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// JoinByCode POST /teams/join.
func (h *TeamsHandler) JoinByCode(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.JoinByCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	member, err := h.snapshot(ctx, principal, domain.TeamRoleMember)
	if err != nil {
		return err
	}
	team, err := h.teams.JoinTeamByCode(ctx, req.Code, member)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// GetTeam GET /teams/:id.
func (h *TeamsHandler) GetTeam(c *fiber.Ctx) error {
	_, ctx, err := actor(c)
	if err != nil {
		return err
	}
	team, err := h.teams.GetTeam(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// UpdateTeam PATCH /teams/:id. Lead only.
func (h *TeamsHandler) UpdateTeam(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	teamID := c.Params("id")
	if _, err := h.teams.RequireLead(ctx, teamID, principal.AccountID); err != nil {
		return err
	}

	update := service.TeamUpdate{
		Name:           req.Name,
		Description:    req.Description,
		HackathonID:    req.HackathonID,
		HackathonName:  req.HackathonName,
		RequiredSkills: req.RequiredSkills,
	}
	if req.MaxMembers != nil {
		clamped := ClampTeamSize(*req.MaxMembers)
		update.MaxMembers = &clamped
	}
	team, err := h.teams.UpdateTeam(ctx, teamID, update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// DeleteTeam DELETE /teams/:id. Lead only.
func (h *TeamsHandler) DeleteTeam(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	teamID := c.Params("id")
	if _, err := h.teams.RequireLead(ctx, teamID, principal.AccountID); err != nil {
		return err
	}
	if err := h.teams.DeleteTeam(ctx, teamID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddMember POST /teams/:id/members. Lead only.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.UserID) == "" {
		return apperrors.NewValidationError("userId required", map[string]any{"userId": "required"})
	}
	teamID := c.Params("id")
	if _, err := h.teams.RequireLead(ctx, teamID, principal.AccountID); err != nil {
		return err
	}
	member, err := h.profiles.MemberSnapshot(ctx, req.UserID, req.Name, req.Avatar, domain.TeamRoleMember)
	if err != nil {
		return err
	}
	team, err := h.teams.AddTeamMember(ctx, teamID, member)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// RemoveMember DELETE /teams/:id/members/:memberId. Lead, or the member themselves.
func (h *TeamsHandler) RemoveMember(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	return h.removeMember(ctx, c, principal.AccountID, c.Params("memberId"))
}

// Leave POST /teams/:id/leave.
func (h *TeamsHandler) Leave(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	return h.removeMember(ctx, c, principal.AccountID, principal.AccountID)
}

func (h *TeamsHandler) removeMember(ctx context.Context, c *fiber.Ctx, actorID, memberID string) error {
	teamID := c.Params("id")
	if _, err := h.teams.RequireLeadOrSelf(ctx, teamID, actorID, memberID); err != nil {
		return err
	}
	team, err := h.teams.RemoveTeamMember(ctx, teamID, memberID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// Reconcile POST /teams/:id/reconcile. Lead only.
func (h *TeamsHandler) Reconcile(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	teamID := c.Params("id")
	if _, err := h.teams.RequireLead(ctx, teamID, principal.AccountID); err != nil {
		return err
	}
	team, err := h.teams.ReconcileMembers(ctx, teamID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// RequestToJoin POST /teams/:id/requests. Files a request from the caller.
func (h *TeamsHandler) RequestToJoin(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	team, err := h.teams.AddJoinRequest(ctx, c.Params("id"), principal.AccountID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// AcceptRequest POST /teams/:id/requests/:userId/accept. Lead, or the
// requested user accepting an invitation filed on their behalf. A request the
// user filed themself waits for the lead.
func (h *TeamsHandler) AcceptRequest(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	teamID, userID := c.Params("id"), c.Params("userId")
	team, err := h.teams.RequireLeadOrSelf(ctx, teamID, principal.AccountID, userID)
	if err != nil {
		return err
	}
	if !team.IsLead(principal.AccountID) {
		if !team.HasJoinRequest(userID) {
			return apperrors.NewNotFound("join request", map[string]any{"team_id": teamID, "user_id": userID})
		}
		if !team.IsInvited(userID) {
			return apperrors.NewForbidden("only the team lead can accept a request you filed yourself")
		}
	}
	displayName, avatar := "", ""
	if userID == principal.AccountID {
		displayName, avatar = principal.DisplayName, principal.AvatarURL
	}
	member, err := h.profiles.MemberSnapshot(ctx, userID, displayName, avatar, domain.TeamRoleMember)
	if err != nil {
		return err
	}
	team, err = h.teams.AcceptJoinRequest(ctx, teamID, member)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

// RejectRequest POST /teams/:id/requests/:userId/reject. Lead, or the
// requester withdrawing their own request.
func (h *TeamsHandler) RejectRequest(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	teamID, userID := c.Params("id"), c.Params("userId")
	if _, err := h.teams.RequireLeadOrSelf(ctx, teamID, principal.AccountID, userID); err != nil {
		return err
	}
	team, err := h.teams.RejectJoinRequest(ctx, teamID, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamResponse(team)})
}

func (h *TeamsHandler) snapshot(ctx context.Context, principal *auth.Principal, role domain.TeamRole) (domain.TeamMember, error) {
	return h.profiles.MemberSnapshot(ctx, principal.AccountID, principal.DisplayName, principal.AvatarURL, role)
}
