package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Rupeshkotha/Hackhub/internal/api/dto"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/service"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, err := h.auth.Register(c.UserContext(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authPayload(account, token)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	account, token, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authPayload(account, token)})
}

func authPayload(account *domain.Account, token domain.Token) fiber.Map {
	return fiber.Map{
		"account": dto.AccountResponse{
			ID:          account.ID,
			Email:       account.Email,
			DisplayName: account.DisplayName,
			AvatarURL:   account.AvatarURL,
		},
		"auth": dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
	}
}
