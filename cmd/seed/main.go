package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trekweb/trek_web_backend/internal/config"
	"github.com/trekweb/trek_web_backend/internal/database"
	"github.com/trekweb/trek_web_backend/internal/repository"
	"github.com/trekweb/trek_web_backend/internal/seed"
	"github.com/trekweb/trek_web_backend/pkg/logger"
)

func main() {
	withPackages := flag.Bool("packages", true, "upsert the sample trek packages")
	withCustomer := flag.Bool("customer", true, "upsert the test customer account")
	password := flag.String("password", "password123", "plain password for the test customer")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Fatalf("Configuration error: %v", err)
	}
	logger.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	store, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		stop()
		logger.Log.Fatalf("Database connection error: %v", err)
	}

	result, err := run(ctx, store.DB, seed.Options{Packages: *withPackages, Customer: *withCustomer, Password: *password})
	stop()
	if derr := store.Disconnect(context.Background()); derr != nil {
		logger.Log.WithError(derr).Error("Failed to disconnect from MongoDB")
	}
	if err != nil {
		logger.Log.WithError(err).Error("Seeding failed")
		os.Exit(1)
	}

	logger.Log.WithField("packages", len(result.Packages)).Info("Seeding completed")
}

// run ensures indexes and writes the selected fixtures into db.
func run(ctx context.Context, db *mongo.Database, opts seed.Options) (*seed.Result, error) {
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("index setup: %w", err)
	}
	return seed.Run(ctx,
		repository.NewPackageRepository(db),
		repository.NewCustomerRepository(db),
		opts,
	)
}
