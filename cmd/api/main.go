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

	httptransport "github.com/spec-kit/incident-panel/internal/api/http"
	"github.com/spec-kit/incident-panel/internal/api/http/handlers"
	"github.com/spec-kit/incident-panel/internal/client"
	"github.com/spec-kit/incident-panel/internal/config"
	"github.com/spec-kit/incident-panel/internal/events"
	"github.com/spec-kit/incident-panel/internal/observability"
	"github.com/spec-kit/incident-panel/internal/persistence"
	"github.com/spec-kit/incident-panel/internal/repository"
	"github.com/spec-kit/incident-panel/internal/service"
	"github.com/spec-kit/incident-panel/internal/worker"
	"github.com/spec-kit/incident-panel/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		userRepo     repository.UserRepository
		incidentRepo repository.IncidentRepository
		publisher    service.Publisher
		readiness    = map[string]handlers.Pinger{"redis": nil, "postgres": nil}
	)
	if redis.Configured() {
		publisher = redis
		readiness["redis"] = redis
	}
	if pg.Configured() {
		pool := pg.PoolHandle()
		userRepo = repository.NewUserRepository(pool)
		incidentRepo = repository.NewIncidentRepository(pool)
		readiness["postgres"] = pg
	} else {
		memory := repository.NewMemoryStore()
		userRepo = memory.Users()
		incidentRepo = memory.Incidents()
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, publisher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	incidentService := service.NewIncidentService(service.IncidentDependencies{
		IncidentRepo: incidentRepo,
		UserRepo:     userRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	userService := service.NewUserService(userRepo, nil)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		RequestTimeout:   cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	routes := httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Incidents: handlers.NewIncidentsHandler(incidentService),
		Users:     handlers.NewUsersHandler(userService),
		Metrics:   metrics.Handler(),
	}
	if cfg.Panel.Enabled {
		apiClient := client.New(cfg.Panel.APIBaseURL, cfg.Panel.ClientTimeout())
		routes.Panel = handlers.NewPanelHandler(apiClient, logger)
	}
	httptransport.RegisterRoutes(app, routes)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown incomplete", zap.Error(err))
	}
	notificationService.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
