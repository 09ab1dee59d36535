package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/salon-api/config"
	"github.com/jwalitptl/salon-api/internal/email"
	"github.com/jwalitptl/salon-api/internal/service/notification"
	"github.com/jwalitptl/salon-api/internal/sms"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/messaging"
	"github.com/jwalitptl/salon-api/pkg/messaging/redis"
	"github.com/jwalitptl/salon-api/pkg/metrics"
	"github.com/jwalitptl/salon-api/pkg/worker"
)

const healthAddr = ":8081"

func setupHealthCheck(broker *redis.RedisBroker, registry *prometheus.Registry, logger *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := broker.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: healthAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(err, "Health check server failed")
			os.Exit(1)
		}
	}()
	return srv
}

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	// Initialize logger
	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.App.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.App.Env == "production",
	}).WithFields(map[string]interface{}{"component": "notification-worker"})
	log.Logger = appLogger.Zerolog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.NewMetrics("salon_worker", registry)

	// Initialize Redis broker
	zl := appLogger.Zerolog()
	broker, err := redis.NewRedisBroker(ctx, cfg.Redis.ToBrokerConfig(), &zl, m)
	if err != nil {
		appLogger.Fatal(err, "Failed to create Redis broker")
	}
	defer broker.Close()

	deliverer := notification.NewDeliverer(
		email.NewSMTPService(cfg.Notification.Email.ToServiceConfig()),
		sms.NewNetgsmService(cfg.Notification.SMS.ToServiceConfig(cfg.Notification.SendTimeout)),
		cfg.Notification.ToDelivererConfig(),
		appLogger,
		m,
	)

	consumer := worker.NewQueueConsumer(
		messaging.NewJobQueue(broker, cfg.Redis.QueueKey),
		deliverer.Deliver,
		cfg.Redis.PollTimeout,
		cfg.Notification.SendTimeout,
		appLogger,
	)

	// Setup health check endpoints
	healthSrv := setupHealthCheck(broker, registry, appLogger)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		appLogger.Info("Shutting down...")
		cancel()
	}()

	appLogger.Info(fmt.Sprintf("Consuming %s", cfg.Redis.QueueKey))
	consumer.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = healthSrv.Shutdown(shutdownCtx)
}
