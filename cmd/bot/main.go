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

	httptransport "github.com/spec-kit/timecard-bot/internal/api/http"
	"github.com/spec-kit/timecard-bot/internal/api/http/handlers"
	"github.com/spec-kit/timecard-bot/internal/auth"
	"github.com/spec-kit/timecard-bot/internal/chat"
	"github.com/spec-kit/timecard-bot/internal/config"
	"github.com/spec-kit/timecard-bot/internal/observability"
	"github.com/spec-kit/timecard-bot/internal/persistence"
	"github.com/spec-kit/timecard-bot/internal/repository"
	"github.com/spec-kit/timecard-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewJobCategoryRepository(pool)
	timecardRepo := repository.NewTimeCardRepository(pool)

	registryService := service.NewRegistryService(service.RegistryDependencies{
		UserRepo:     userRepo,
		CategoryRepo: categoryRepo,
		Logger:       logger,
	})
	timecardService := service.NewTimecardService(service.TimecardDependencies{
		Registry:     registryService,
		TimeCardRepo: timecardRepo,
		Logger:       logger,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		TimeCardRepo: timecardRepo,
		Logger:       logger,
	})

	notifier := chat.NewSlackNotifier(cfg.Slack.BotToken, logger)
	verifier := auth.NewSignatureVerifier(cfg.Slack.SigningSecret)
	admins := auth.NewAdminList(cfg.Bot.AdminUserIDs)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics)

	dedupTTL := time.Duration(cfg.Bot.EventDedupTTLSeconds) * time.Second
	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	eventsHandler := handlers.NewEventsHandler(timecardService, notifier, redis, dedupTTL, metrics, logger)
	commandsHandler := handlers.NewCommandsHandler(registryService, reportService, notifier, admins, metrics, logger)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    healthHandler,
		Events:    eventsHandler,
		Commands:  commandsHandler,
		Signature: httptransport.SlackSignatureMiddleware(verifier, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
