package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Rupeshkotha/Hackhub/internal/api/http"
	"github.com/Rupeshkotha/Hackhub/internal/api/http/handlers"
	"github.com/Rupeshkotha/Hackhub/internal/auth"
	"github.com/Rupeshkotha/Hackhub/internal/config"
	"github.com/Rupeshkotha/Hackhub/internal/docstore"
	"github.com/Rupeshkotha/Hackhub/internal/events"
	"github.com/Rupeshkotha/Hackhub/internal/matching"
	"github.com/Rupeshkotha/Hackhub/internal/observability"
	"github.com/Rupeshkotha/Hackhub/internal/persistence"
	"github.com/Rupeshkotha/Hackhub/internal/repository"
	"github.com/Rupeshkotha/Hackhub/internal/service"
	"github.com/Rupeshkotha/Hackhub/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var store docstore.Store
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		store = docstore.NewPostgresStore(pg.Pool)
	} else {
		logger.Warn("using in-memory document store; data is lost on restart")
		store = docstore.NewMemoryStore().
			WithUniqueField("teams", "teamCode").
			WithUniqueField("accounts", "email")
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to configure redis", zap.Error(err))
	}
	defer redis.Close()

	var sessions matching.SessionStore
	if redis.Enabled() {
		sessions = matching.NewRedisSessionStore(redis.Client, cfg.Matching.SessionTTL())
	} else {
		sessions = matching.NewMemorySessionStore(cfg.Matching.SessionTTL())
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	accountRepo := repository.NewAccountRepository(store)
	profileRepo := repository.NewProfileRepository(store)
	teamRepo := repository.NewTeamRepository(store)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: accountRepo,
		ProfileRepo: profileRepo,
		Logger:      logger,
	})
	profileService := service.NewProfileService(profileRepo, dispatcher, logger)
	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo:    teamRepo,
		ProfileRepo: profileRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
		Config:      cfg.Teams,
	})
	matchingService := service.NewMatchingService(service.MatchingDependencies{
		Teams:      teamService,
		Candidates: profileService,
		Sessions:   sessions,
		Metrics:    metrics,
		Logger:     logger,
	})
	activityService := service.NewActivityService(repository.NewTeamActivityRepository(store), teamService, logger)

	worker.Start(worker.Dependencies{
		Dispatcher:    dispatcher,
		Teams:         teamService,
		Activity:      activityService,
		Notifications: service.NewNotificationService(dispatcher, logger, cfg.Notification),
		Logger:        logger,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		Immutable:             true,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	var checks []handlers.HealthCheck
	if pg.Enabled() {
		checks = append(checks, handlers.HealthCheck{Name: "postgres", Ping: pg.Ping})
	}
	if redis.Enabled() {
		checks = append(checks, handlers.HealthCheck{Name: "redis", Ping: redis.Ping})
	}

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks...),
		Auth:           handlers.NewAuthHandler(authService),
		Profiles:       handlers.NewProfilesHandler(profileService),
		Teams:          handlers.NewTeamsHandler(teamService, profileService),
		Matches:        handlers.NewMatchesHandler(matchingService),
		Activity:       handlers.NewActivityHandler(activityService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics.Handler(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
