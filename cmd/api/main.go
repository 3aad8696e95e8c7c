package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-tickets/internal/api/http"
	"github.com/spec-kit/support-tickets/internal/api/http/handlers"
	"github.com/spec-kit/support-tickets/internal/classifier"
	"github.com/spec-kit/support-tickets/internal/config"
	"github.com/spec-kit/support-tickets/internal/events"
	"github.com/spec-kit/support-tickets/internal/observability"
	"github.com/spec-kit/support-tickets/internal/persistence"
	"github.com/spec-kit/support-tickets/internal/repository"
	"github.com/spec-kit/support-tickets/internal/service"
	"github.com/spec-kit/support-tickets/internal/validation"
	"github.com/spec-kit/support-tickets/internal/worker"
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	validator, err := validation.New()
	if err != nil {
		logger.Fatal("failed to compile ticket schemas", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	var publisher *events.RedisPublisher
	if redis.Enabled() {
		publisher = events.NewRedisPublisher(redis.Client, cfg.Events.RedisChannel)
	}
	worker.StartNotificationWorker(dispatcher, logger, publisher)

	deps := service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(),
		Validator:  validator,
		Classifier: classifier.New(classifier.NewAuditLog(), logger, metrics),
		Dispatcher: dispatcher,
		Logger:     logger,
	}
	ticketService := service.NewTicketService(deps)
	importService := service.NewImportService(deps, metrics)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.Import.MaxUploadBytes,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Imports:         handlers.NewImportHandler(importService, int64(cfg.Import.MaxUploadBytes), cfg.Import.DefaultAutoClassify),
		Classifications: handlers.NewClassificationHandler(ticketService),
		Gatherer:        registry,
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()))
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
