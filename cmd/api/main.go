package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civicworks/waste-complaints/internal/api/http"
	"github.com/civicworks/waste-complaints/internal/api/http/handlers"
	"github.com/civicworks/waste-complaints/internal/auth"
	"github.com/civicworks/waste-complaints/internal/config"
	"github.com/civicworks/waste-complaints/internal/events"
	"github.com/civicworks/waste-complaints/internal/observability"
	"github.com/civicworks/waste-complaints/internal/persistence"
	"github.com/civicworks/waste-complaints/internal/repository"
	"github.com/civicworks/waste-complaints/internal/service"
	"github.com/civicworks/waste-complaints/internal/session"
	"github.com/civicworks/waste-complaints/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var (
		accountRepo   repository.AccountRepository
		complaintRepo repository.ComplaintRepository
	)
	if pool := pg.PoolHandle(); pool != nil {
		accountRepo = repository.NewAccountRepository(pool)
		complaintRepo = repository.NewComplaintRepository(pool)
	} else {
		logger.Warn("running with in-memory account and complaint store")
		memory := repository.NewMemory()
		accountRepo = memory.Accounts()
		complaintRepo = memory.Complaints()
	}

	var sessions session.Store
	if cfg.Session.Backend == "memory" {
		sessions = session.NewMemoryStore(cfg.Session.TTL())
	} else {
		sessions = session.NewRedisStore(redis.Client, cfg.Session.TTL())
	}

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	accountService := service.NewAccountService(*cfg, accountRepo, sessions)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		AccountRepo:   accountRepo,
		ComplaintRepo: complaintRepo,
		Dispatcher:    dispatcher,
	})
	regionService := service.NewRegionService(complaintRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	sessionMiddleware := auth.NewSessionMiddleware(sessions, cfg.Session.CookieName)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Pages:             handlers.NewPagesHandler(),
		Accounts:          handlers.NewAccountsHandler(accountService, cfg.Session),
		Complaints:        handlers.NewComplaintsHandler(complaintService),
		Staff:             handlers.NewStaffHandler(complaintService, regionService),
		SessionMiddleware: sessionMiddleware,
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
