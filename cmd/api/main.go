package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urbexlog/places-service/internal/config"
	httpDelivery "github.com/urbexlog/places-service/internal/delivery/http"
	"github.com/urbexlog/places-service/internal/delivery/http/handler"
	"github.com/urbexlog/places-service/internal/pkg/logger"
	"github.com/urbexlog/places-service/internal/repository/cache"
	"github.com/urbexlog/places-service/internal/repository/filestore"
	"github.com/urbexlog/places-service/internal/repository/postgres"
	"github.com/urbexlog/places-service/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Urbex Logs API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize repositories
	placeRepo := postgres.NewPlaceRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	fileRepo, err := filestore.New(&cfg.Upload, log)
	if err != nil {
		log.Fatal("Failed to initialize upload store", zap.Error(err))
	}

	log.Info("Repositories initialized")

	// 7. Initialize use cases and handlers
	placeUC := usecase.NewPlaceUseCase(
		placeRepo,
		fileRepo,
		cacheRepo,
		log,
		cfg.Cache.PlacesCacheTTL,
	)
	placeHandler := handler.NewPlaceHandler(placeUC, cfg.Upload.FieldName, log)

	// 8. Start HTTP server
	server := httpDelivery.NewServer(cfg, log, placeHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 9. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down HTTP server gracefully", zap.Error(err))
	}

	log.Info("Server stopped")
}
