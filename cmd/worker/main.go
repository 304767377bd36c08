package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/iftm/client-service/internal/application/service"
	"github.com/iftm/client-service/internal/config"
	"github.com/iftm/client-service/internal/domain"
	"github.com/iftm/client-service/internal/infrastructure/messaging"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	logger.Info("connected to Redis successfully")

	auditService := service.NewAuditService(logger)

	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("worker-%s-%d", hostname, os.Getpid())
	eventSubscriber := messaging.NewRedisEventSubscriber(redisClient, logger, cfg.Events.ConsumerGroup, consumerName)

	for _, eventType := range domain.ClientEventTypes {
		if err := eventSubscriber.Subscribe(ctx, eventType, auditService.HandleClientEvent); err != nil {
			logger.Fatal("failed to subscribe to events", zap.Error(err), zap.String("event_type", eventType))
		}
	}

	logger.Info("worker started",
		zap.String("consumer", consumerName),
		zap.String("group", cfg.Events.ConsumerGroup),
		zap.Strings("event_types", domain.ClientEventTypes),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down worker...")
		cancel()
	}()

	if err := eventSubscriber.Start(ctx); err != nil {
		logger.Info("worker stopped", zap.Error(err))
	}

	logger.Info("worker exited", zap.Int64("events_audited", auditService.Handled()))
}
