package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/trekweb/trek_web_backend/internal/config"
	"github.com/trekweb/trek_web_backend/internal/database"
	"github.com/trekweb/trek_web_backend/internal/handlers"
	"github.com/trekweb/trek_web_backend/internal/jobs"
	"github.com/trekweb/trek_web_backend/internal/repository"
	"github.com/trekweb/trek_web_backend/internal/scheduler"
	"github.com/trekweb/trek_web_backend/internal/services"
	"github.com/trekweb/trek_web_backend/pkg/logger"
	"github.com/trekweb/trek_web_backend/pkg/middleware"
)

func main() {
	// Load configuration from .env file and environment
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Fatalf("Configuration error: %v", err)
	}

	logger.InitLogger(cfg.LogLevel)
	logger.Log.Info("Logger initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	store, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		logger.Log.Fatalf("Database connection error: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Disconnect(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()

	if err := database.EnsureIndexes(ctx, store.DB); err != nil {
		logger.Log.Fatalf("Index setup error: %v", err)
	}

	// --- Repositories ---
	wishlistRepo := repository.NewWishlistRepository(store.DB)
	customerRepo := repository.NewCustomerRepository(store.DB)

	// --- Services ---
	wishlistService := services.NewWishlistService(wishlistRepo, customerRepo)

	// --- Background jobs ---
	monitor := jobs.NewStoreMonitor(store, 5*time.Second)
	storeCron, err := scheduler.StartStoreMonitorCron(cfg.StoreCheckSchedule, monitor)
	if err != nil {
		logger.Log.Fatalf("Scheduler error: %v", err)
	}
	defer storeCron.Stop()

	// --- Handlers ---
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	healthHandler := handlers.NewHealthHandler(monitor)

	chain := []mux.MiddlewareFunc{middleware.RequestID, middleware.Recovery, middleware.LoggingMiddleware, middleware.MetricsMiddleware}
	router := mux.NewRouter()
	router.Use(chain...)

	wishlistHandler.RegisterRoutes(router)
	handlers.RegisterFallbacks(router, chain...)
	router.HandleFunc("/health", healthHandler.HealthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Log.WithField("addr", srv.Addr).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Error("HTTP server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Graceful shutdown failed")
	}
}
