package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitstudio/server/internal/api"
	"fitstudio/server/internal/config"
	"fitstudio/server/internal/repository"
	"fitstudio/server/internal/repository/memory"
	mongostore "fitstudio/server/internal/repository/mongo"
	"fitstudio/server/internal/repository/relational"
	"fitstudio/server/internal/service"
	"fitstudio/server/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLogger, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, logger.DefaultServiceName)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		appLogger.Fatal("Invalid timezone", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	// --- Storage ---
	store, err := openStore(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Could not open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			appLogger.Error("Failed to close storage", zap.Error(err))
		}
	}()

	// --- Services ---
	clock := service.SystemClock
	services := api.Services{
		Auth: service.NewAuthService(store, service.TokenConfig{
			Secret:     cfg.JWT.Secret,
			Expiration: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, clock, appLogger),
		Users:     service.NewUserService(store, appLogger),
		Workouts:  service.NewWorkoutService(store, clock, appLogger),
		Exercises: service.NewExerciseService(store, appLogger),
		Sessions:  service.NewSessionService(store, loc, appLogger),
		Payments:  service.NewPaymentService(store, clock, appLogger),
		Progress:  service.NewProgressService(store, clock, appLogger),
		Dashboard: service.NewDashboardService(store, clock, loc, appLogger),
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(appLogger, cfg.CORS.AllowedOrigins)
	api.SetupRoutes(router, services, loc)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		appLogger.Info("Server starting", zap.String("address", cfg.Server.Address), zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("ListenAndServe failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exiting.")
}

// openStore connects the backend selected by storage.driver.
func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (*repository.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewStore(nil), nil

	case config.DriverMongo:
		client, err := mongostore.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		db := client.Database(cfg.Database.Name)
		indexCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := mongostore.EnsureIndexes(indexCtx, db); err != nil {
			_ = mongostore.DisconnectDB(ctx, client)
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		log.Info("Database connection established", zap.String("database", cfg.Database.Name))
		return mongostore.NewMongoStore(client, db, nil), nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := relational.Open(cfg.Storage.Driver, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		if err := relational.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info("Database connection established", zap.String("driver", cfg.Storage.Driver))
		return relational.NewStore(db, nil), nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Storage.Driver)
}
