package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Rupeshkotha/Hackhub/internal/auth"
	"github.com/Rupeshkotha/Hackhub/internal/service"
)

// actor returns the authenticated caller and a request context attributed to them.
func actor(c *fiber.Ctx) (*auth.Principal, context.Context, error) {
	principal, err := auth.MustPrincipal(c)
	if err != nil {
		return nil, nil, err
	}
	return principal, service.WithActor(c.UserContext(), principal.AccountID), nil
}
