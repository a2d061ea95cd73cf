package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Rupeshkotha/Hackhub/internal/auth"
	"github.com/Rupeshkotha/Hackhub/internal/config"
	"github.com/Rupeshkotha/Hackhub/internal/domain"
	"github.com/Rupeshkotha/Hackhub/internal/repository"
	apperrors "github.com/Rupeshkotha/Hackhub/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts   repository.AccountRepository
	profiles   repository.ProfileRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
	now        func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	ProfileRepo repository.ProfileRepository
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		profiles:   deps.ProfileRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

// Register creates an account, seeds its profile and issues a token.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*domain.Account, domain.Token, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	details := map[string]any{}
	if _, err := mail.ParseAddress(email); err != nil {
		details["email"] = "invalid"
	}
	if displayName == "" {
		details["displayName"] = "required"
	}
	if err := auth.ValidatePassword(password); err != nil {
		details["password"] = err.Error()
	}
	if len(details) > 0 {
		return nil, domain.Token{}, apperrors.NewValidationError("invalid registration", details)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}

	now := s.now().UTC()
	account := &domain.Account{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domain.Token{}, apperrors.NewConflict("email already registered", map[string]any{"email": account.Email})
		}
		return nil, domain.Token{}, apperrors.MapError(err)
	}

	if s.profiles != nil {
		seed := &domain.UserProfile{Name: account.DisplayName, Email: account.Email}
		if err := s.profiles.Save(ctx, account.ID, seed); err != nil {
			s.logger.Warn("failed to seed profile", zap.String("account_id", account.ID), zap.Error(err))
		}
	}

	token, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("account registered", zap.String("account_id", account.ID))
	return account, token, nil
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, domain.Token, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, domain.Token{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return account, token, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
