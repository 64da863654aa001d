package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/velotaller/repair-service/internal/api/http"
	"github.com/velotaller/repair-service/internal/api/http/handlers"
	"github.com/velotaller/repair-service/internal/assets"
	"github.com/velotaller/repair-service/internal/auth"
	"github.com/velotaller/repair-service/internal/config"
	"github.com/velotaller/repair-service/internal/events"
	"github.com/velotaller/repair-service/internal/observability"
	"github.com/velotaller/repair-service/internal/persistence"
	"github.com/velotaller/repair-service/internal/report"
	"github.com/velotaller/repair-service/internal/repository"
	"github.com/velotaller/repair-service/internal/service"
	"github.com/velotaller/repair-service/internal/store"
	"github.com/velotaller/repair-service/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	ticketRepo := repository.NewTicketRepository(pg.PoolHandle())
	ticketStore := store.NewTicketStore(ticketRepo, logger)
	if err := ticketStore.Subscribe(ctx, nil); err != nil {
		logger.Fatal("failed to open repair subscription", zap.Error(err))
	}
	defer ticketStore.Cancel()

	provider := service.NewLocalSessionProvider(
		cfg.Session.AccountEmail,
		cfg.Session.AccountPasswordHash,
		cfg.Session.AccountDisabled,
	)
	sessionService := service.NewSessionService(cfg.Session, provider, redis.Client, logger)
	authMiddleware := auth.NewMiddleware(sessionService.TokenManager())

	repairService := service.NewRepairService(ticketRepo, dispatcher)
	reportService := service.NewReportService(ticketStore, report.NewExcelRenderer())
	alertService := service.NewAlertService(dispatcher, logger)
	worker.StartAlertWorker(alertService)

	assetStore, err := assets.NewDirStore(cfg.Storage.AssetDir)
	if err != nil {
		logger.Fatal("failed to init asset storage", zap.Error(err))
	}

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Session:        handlers.NewSessionHandler(sessionService),
		Repairs:        handlers.NewRepairsHandler(ticketRepo, dispatcher, ticketStore, repairService),
		Statistics:     handlers.NewStatisticsHandler(ticketStore),
		Reports:        handlers.NewReportsHandler(reportService),
		Assets:         handlers.NewAssetsHandler(assetStore),
		Alerts:         handlers.NewAlertsHandler(alertService),
		AuthMiddleware: authMiddleware,
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
