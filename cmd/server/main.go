package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/disaster-risk-service/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/disaster-risk-service/internal/adapter/http"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/notify"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/openweather"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/sqlite"
	"github.com/couchcryptid/disaster-risk-service/internal/adapter/usgs"
	"github.com/couchcryptid/disaster-risk-service/internal/config"
	"github.com/couchcryptid/disaster-risk-service/internal/gateway"
	"github.com/couchcryptid/disaster-risk-service/internal/observability"
	"github.com/couchcryptid/disaster-risk-service/internal/risk"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	cacheStore := cache.New()
	defer cacheStore.Close()

	weather := openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherTimeout, logger)
	seismic := usgs.NewClient(cfg.USGSBaseURL, cfg.USGSTimeout, logger)
	conditions := gateway.New(weather, seismic, cacheStore, logger, metrics)

	var notifier risk.Notifier
	var kafkaNotifier *notify.Kafka
	switch cfg.Notifier {
	case config.NotifierWebhook:
		notifier = notify.NewWebhook(cfg.WebhookURL, cfg.WebhookSecret)
		logger.Info("webhook notifications enabled", "url", cfg.WebhookURL)
	case config.NotifierKafka:
		kafkaNotifier = notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		notifier = kafkaNotifier
		logger.Info("kafka notifications enabled", "topic", cfg.KafkaAlertTopic)
	default:
		logger.Info("notifications disabled")
	}

	service := risk.New(store, store, store, store, store, conditions, cacheStore, notifier, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, service, store, store, store, readiness{store}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			logger.Error("kafka notifier close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// readiness reports ready once the database answers a ping.
type readiness struct {
	store *sqlite.Store
}

func (r readiness) CheckReadiness(ctx context.Context) error {
	return r.store.Ping(ctx)
}
