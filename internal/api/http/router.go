package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rupeshkotha/Hackhub/internal/api/http/handlers"
	"github.com/Rupeshkotha/Hackhub/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profiles       *handlers.ProfilesHandler
	Teams          *handlers.TeamsHandler
	Matches        *handlers.MatchesHandler
	Activity       *handlers.ActivityHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated()}

	profiles := app.Group("/profiles", protected...)
	profiles.Get("/me", cfg.Profiles.GetMine)
	profiles.Put("/me", cfg.Profiles.SaveMine)
	profiles.Get("/:id", cfg.Profiles.Get)

	teams := app.Group("/teams", protected...)
	teams.Post("/", cfg.Teams.CreateTeam)
	teams.Get("/", cfg.Teams.ListAvailable)
	teams.Get("/mine", cfg.Teams.ListMine)
	teams.Get("/requests/mine", cfg.Teams.ListMyRequests)
	teams.Get("/search", cfg.Teams.Search)
	teams.Get("/code/:code", cfg.Teams.GetByCode)
	teams.Post("/join", cfg.Teams.JoinByCode)
	teams.Get("/:id", cfg.Teams.GetTeam)
	teams.Patch("/:id", cfg.Teams.UpdateTeam)
	teams.Delete("/:id", cfg.Teams.DeleteTeam)
	teams.Post("/:id/members", cfg.Teams.AddMember)
	teams.Delete("/:id/members/:memberId", cfg.Teams.RemoveMember)
	teams.Post("/:id/leave", cfg.Teams.Leave)
	teams.Post("/:id/reconcile", cfg.Teams.Reconcile)
	teams.Post("/:id/requests", cfg.Teams.RequestToJoin)
	teams.Post("/:id/requests/:userId/accept", cfg.Teams.AcceptRequest)
	teams.Post("/:id/requests/:userId/reject", cfg.Teams.RejectRequest)
	teams.Get("/:id/activity", cfg.Activity.ListTeamActivity)
	teams.Get("/:id/matches", cfg.Matches.ListMatches)
	teams.Post("/:id/matches", cfg.Matches.StartSession)

	matches := app.Group("/matches", protected...)
	matches.Get("/:sessionId", cfg.Matches.GetSession)
	matches.Post("/:sessionId/match", cfg.Matches.Match)
	matches.Post("/:sessionId/skip", cfg.Matches.Skip)
	matches.Post("/:sessionId/reset", cfg.Matches.Reset)
}
