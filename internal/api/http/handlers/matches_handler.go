package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Rupeshkotha/Hackhub/internal/api/dto"
	"github.com/Rupeshkotha/Hackhub/internal/service"
)

// MatchesHandler exposes the skill matcher and match sessions.
type MatchesHandler struct {
	matching *service.MatchingService
}

// NewMatchesHandler constructs handler.
func NewMatchesHandler(matchingService *service.MatchingService) *MatchesHandler {
	return &MatchesHandler{matching: matchingService}
}

// ListMatches GET /teams/:id/matches. Ranks candidates without opening a session.
func (h *MatchesHandler) ListMatches(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	matches, err := h.matching.ComputeMatches(ctx, c.Params("id"), principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": matches})
}

// StartSession POST /teams/:id/matches.
func (h *MatchesHandler) StartSession(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	session, err := h.matching.StartSession(ctx, c.Params("id"), principal.AccountID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// GetSession GET /matches/:sessionId.
func (h *MatchesHandler) GetSession(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	session, err := h.matching.GetSession(ctx, c.Params("sessionId"), principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}

// Match POST /matches/:sessionId/match. Files a join request for the current candidate.
func (h *MatchesHandler) Match(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	result, err := h.matching.Match(ctx, c.Params("sessionId"), principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stepResponse(result)})
}

// Skip POST /matches/:sessionId/skip.
func (h *MatchesHandler) Skip(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	result, err := h.matching.Skip(ctx, c.Params("sessionId"), principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stepResponse(result)})
}

// Reset POST /matches/:sessionId/reset.
func (h *MatchesHandler) Reset(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	result, err := h.matching.Reset(ctx, c.Params("sessionId"), principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stepResponse(result)})
}

func stepResponse(result *service.StepResult) dto.StepResponse {
	return dto.StepResponse{Session: dto.NewSessionResponse(result.Session), Decided: result.Decided}
}
