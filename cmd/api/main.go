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
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/salon-api/config"
	"github.com/jwalitptl/salon-api/internal/email"
	"github.com/jwalitptl/salon-api/internal/handler/appointment"
	"github.com/jwalitptl/salon-api/internal/handler/catalog"
	"github.com/jwalitptl/salon-api/internal/handler/customer"
	"github.com/jwalitptl/salon-api/internal/handler/dashboard"
	"github.com/jwalitptl/salon-api/internal/handler/expert"
	"github.com/jwalitptl/salon-api/internal/handler/health"
	"github.com/jwalitptl/salon-api/internal/middleware"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/repository/memory"
	"github.com/jwalitptl/salon-api/internal/repository/postgres"
	"github.com/jwalitptl/salon-api/internal/router"
	"github.com/jwalitptl/salon-api/internal/seed"
	appointmentService "github.com/jwalitptl/salon-api/internal/service/appointment"
	catalogService "github.com/jwalitptl/salon-api/internal/service/catalog"
	customerService "github.com/jwalitptl/salon-api/internal/service/customer"
	expertService "github.com/jwalitptl/salon-api/internal/service/expert"
	"github.com/jwalitptl/salon-api/internal/service/guard"
	"github.com/jwalitptl/salon-api/internal/service/notification"
	statsService "github.com/jwalitptl/salon-api/internal/service/stats"
	"github.com/jwalitptl/salon-api/internal/sms"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/messaging"
	"github.com/jwalitptl/salon-api/pkg/messaging/redis"
	"github.com/jwalitptl/salon-api/pkg/metrics"
	"github.com/jwalitptl/salon-api/pkg/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.App.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		JSON:       cfg.App.Env == "production",
	})
	log.Logger = appLogger.Zerolog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics("salon", registry)

	readiness := make(map[string]health.Pinger)

	// Initialize store
	var store *repository.Store
	switch cfg.Database.Driver {
	case config.DriverMemory:
		appLogger.Warn("Using in-memory store; data is lost on restart")
		store = memory.NewStore()
	default:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			appLogger.Fatal(err, "failed to connect to database")
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				appLogger.Fatal(err, "failed to run migrations")
			}
		}
		store = postgres.NewStore(db)
		readiness["database"] = health.PingFunc(db.PingContext)
	}

	if cfg.Database.Seed {
		result, err := seed.Seed(ctx, store)
		if err != nil {
			appLogger.Fatal(err, "failed to seed database")
		}
		appLogger.Info("Seed finished",
			"skipped", result.Skipped,
			"services", result.Services,
			"experts", result.Experts,
			"customers", result.Customers)
	}

	// Initialize notification dispatch
	var dispatcher notification.Dispatcher
	var pool *worker.Pool
	switch cfg.Notification.Mode {
	case config.NotifyDisabled:
		dispatcher = notification.NewDiscardDispatcher(appLogger)
	case config.NotifyRedis:
		zl := appLogger.Zerolog()
		broker, err := redis.NewRedisBroker(ctx, cfg.Redis.ToBrokerConfig(), &zl, m)
		if err != nil {
			appLogger.Fatal(err, "failed to connect to Redis")
		}
		defer broker.Close()

		dispatcher = messaging.NewJobQueue(broker, cfg.Redis.QueueKey)
		readiness["redis"] = broker
	default:
		deliverer := notification.NewDeliverer(
			email.NewSMTPService(cfg.Notification.Email.ToServiceConfig()),
			sms.NewNetgsmService(cfg.Notification.SMS.ToServiceConfig(cfg.Notification.SendTimeout)),
			cfg.Notification.ToDelivererConfig(),
			appLogger,
			m,
		)
		pool = worker.NewPool(cfg.Notification.ToPoolConfig(), deliverer.Deliver, appLogger, m)
		pool.Start(ctx)
		dispatcher = pool
	}

	notifier := notification.NewService(
		dispatcher,
		notification.Config{BusinessName: cfg.Notification.BusinessName},
		appLogger,
		m,
	)

	// Initialize services
	deleteGuard := guard.New(store.Appointments)
	catalogSvc := catalogService.NewService(store.Services, deleteGuard)
	expertSvc := expertService.NewService(store.Experts, deleteGuard)
	customerSvc := customerService.NewService(store.Customers, deleteGuard)
	appointmentSvc := appointmentService.NewService(
		store.Appointments,
		store.Experts,
		notifier,
		appointmentService.Config{TimeSlots: cfg.App.TimeSlots},
		appLogger,
		m,
	)
	statsSvc := statsService.NewService(store.Stats, cfg.App.Location())

	// Setup router
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins

	r := router.NewRouter(
		router.RouterConfig{
			RateLimit:      rate.Limit(cfg.Server.RateLimit.RequestsPerSecond),
			RateBurst:      cfg.Server.RateLimit.Burst,
			CORSConfig:     corsConfig,
			RequestTimeout: cfg.Server.RequestTimeout,
			MetricsPrefix:  cfg.Server.MetricsPrefix,
			Registry:       registry,
			Debug:          cfg.App.Env == "development",
		},
		health.NewHandler(readiness),
		catalog.NewHandler(catalogSvc),
		expert.NewHandler(expertSvc),
		customer.NewHandler(customerSvc),
		appointment.NewHandler(appointmentSvc),
		dashboard.NewHandler(statsSvc),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Start server
	go func() {
		appLogger.Info("Server is running", "port", cfg.Server.Port, "driver", cfg.Database.Driver, "notifications", cfg.Notification.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "server forced to shutdown")
	}

	// Let queued notifications finish.
	if pool != nil {
		if err := pool.Stop(shutdownCtx); err != nil {
			appLogger.Error(err, "notification pool did not drain")
		}
	}
	cancel()

	appLogger.Info("server exited properly")
}
