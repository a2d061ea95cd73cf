package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

// RequireAuthenticated ensures a principal was loaded for the request.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// MustPrincipal returns the request principal or an Unauthorized error.
func MustPrincipal(c *fiber.Ctx) (*Principal, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.AccountID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}
