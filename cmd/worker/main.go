package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gigline/gigline/internal/config"
	"github.com/gigline/gigline/internal/repository"
	"github.com/gigline/gigline/internal/workers"
	"github.com/gigline/gigline/pkg/cache"
	"github.com/gigline/gigline/pkg/logger"
	"github.com/gigline/gigline/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.Info("Starting Gigline worker...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	eventsConsumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.DomainEvents, "gigline-worker-group")

	gigRepo := repository.NewGigRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)

	eventWorker := workers.NewEventWorker(gigRepo, postRepo, redisClient, eventsConsumer, logger)

	go func() {
		if err := eventWorker.Start(ctx); err != nil {
			logger.WithError(err).Error("Event worker stopped with error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")

	if err := eventWorker.Stop(); err != nil {
		logger.WithError(err).Error("Failed to stop event worker")
	}

	logger.Info("Worker exited")
}
