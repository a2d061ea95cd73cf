package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/service"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

// ProfilesHandler manages user profile endpoints.
type ProfilesHandler struct {
	profiles *service.ProfileService
}

// NewProfilesHandler constructs handler.
func NewProfilesHandler(profileService *service.ProfileService) *ProfilesHandler {
	return &ProfilesHandler{profiles: profileService}
}

// GetMine GET /profiles/me.
func (h *ProfilesHandler) GetMine(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(ctx, principal.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profile})
}

// SaveMine PUT /profiles/me. Only the fields present in the body are written.
func (h *ProfilesHandler) SaveMine(c *fiber.Ctx) error {
	principal, ctx, err := actor(c)
	if err != nil {
		return err
	}
	var req domain.UserProfile
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	profile, err := h.profiles.SaveProfile(ctx, principal.AccountID, &req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profile})
}

// Get GET /profiles/:id.
func (h *ProfilesHandler) Get(c *fiber.Ctx) error {
	_, ctx, err := actor(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(ctx, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": profile})
}
