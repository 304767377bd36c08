package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/iftm/client-service/internal/config"
	"github.com/iftm/client-service/internal/domain"
	"github.com/iftm/client-service/internal/infrastructure/messaging"
	memoryrepository "github.com/iftm/client-service/internal/infrastructure/repository/memory"
	sqlrepository "github.com/iftm/client-service/internal/infrastructure/repository/sql"
	"github.com/iftm/client-service/internal/infrastructure/seed"
	"github.com/iftm/client-service/internal/interface/http/handler"
	"github.com/iftm/client-service/internal/interface/http/router"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	var clientRepo domain.ClientRepository
	if cfg.Database.Driver == config.DriverMemory {
		clientRepo = memoryrepository.NewClientRepository()
		logger.Info("using in-memory client store")
	} else {
		db, err := sqlrepository.Open(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("failed to get underlying sql.DB", zap.Error(err))
		}
		defer sqlDB.Close()

		logger.Info("connected to database successfully", zap.String("driver", cfg.Database.Driver))

		repos := sqlrepository.NewRepositories(db, redisClient, cfg.Redis.CacheTTL, logger)
		clientRepo = repos.Client
	}

	if cfg.Database.SeedData {
		seeded, err := seed.Load(ctx, clientRepo)
		if err != nil {
			logger.Fatal("failed to seed clients", zap.Error(err))
		}
		logger.Info("seed data loaded", zap.Int("clients", seeded))
	}

	var eventPublisher domain.EventPublisher
	if cfg.Events.Enabled && redisClient != nil {
		eventPublisher = messaging.NewRedisEventPublisher(redisClient, logger)
		logger.Info("event publishing enabled")
	}

	handlers := handler.NewHandlers(clientRepo, eventPublisher, logger)
	r := router.NewRouter(handlers, logger)

	serverAddr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", zap.String("address", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
