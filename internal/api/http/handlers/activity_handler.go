package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rupeshkotha/Hackhub/internal/service"
)

// ActivityHandler exposes the team audit trail.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activityService}
}

// ListTeamActivity GET /teams/:id/activity?limit=n.
func (h *ActivityHandler) ListTeamActivity(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	entries, err := h.activity.ListTeamActivity(ctx, c.Params("id"), principal.AccountID, c.QueryInt("limit", service.DefaultActivityLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}
