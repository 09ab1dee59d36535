package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/salon-api/config"
	"github.com/jwalitptl/salon-api/internal/repository/postgres"
	"github.com/jwalitptl/salon-api/internal/seed"
	"github.com/jwalitptl/salon-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.Database.Driver).Msg("seeding needs the postgres driver; use database.seed for the memory store")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.App.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		appLogger.Fatal(err, "failed to run migrations")
	}

	result, err := seed.Seed(ctx, postgres.NewStore(db))
	if err != nil {
		appLogger.Fatal(err, "failed to seed database")
	}
	if result.Skipped {
		appLogger.Info("Database already has services; nothing seeded")
		return
	}
	appLogger.Info("Seed data created successfully",
		"services", result.Services,
		"experts", result.Experts,
		"customers", result.Customers)
}
