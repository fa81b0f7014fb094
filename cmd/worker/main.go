// Package main runs the background job worker (roster CSV export to S3).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tsunagu-circle/backend/config"
	"github.com/tsunagu-circle/backend/internal/events"
	"github.com/tsunagu-circle/backend/internal/platform"
	"github.com/tsunagu-circle/backend/internal/registrations"
	"github.com/tsunagu-circle/backend/internal/worker"
	"github.com/tsunagu-circle/backend/pkg/database"
	"github.com/tsunagu-circle/backend/pkg/queue"
	"github.com/tsunagu-circle/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Platform.DatabaseURL,
		cfg.Platform.DBMaxConns, cfg.Platform.DBConnLifetime, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	s3Cfg := storage.S3Config{
		Region:               cfg.AWS.Region,
		AccessKeyID:          cfg.AWS.AccessKeyID,
		SecretAccessKey:      cfg.AWS.SecretAccessKey,
		DocumentsBucket:      cfg.AWS.DocumentsBucket,
		PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
	}
	s3Client, err := storage.NewS3(ctx, s3Cfg, logger)
	if err != nil {
		logger.Fatal("s3", zap.Error(err))
	}

	client := platform.NewClient(pool, logger)
	covers := platform.NewStorage(cfg.Platform.StoragePublicURL)
	eventRepo := events.NewRepository(client, covers, cfg.Platform.CoversBucket)
	rosterRepo := registrations.NewRepository(client)
	jobQueue := queue.NewQueue(rdb, logger)
	exporter := worker.NewRosterExporter(rosterRepo, eventRepo, s3Client, jobQueue, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go exporter.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
