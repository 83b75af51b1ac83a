package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"jobhelper/internal/config"
	"jobhelper/internal/metrics"
	"jobhelper/internal/storage"
	"jobhelper/internal/tasks"
	"jobhelper/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr()}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
	})

	cvPurgeHandler := worker.NewCVPurgeHandler(storageClient, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeCVPurge, cvPurgeHandler)

	logger.Info("worker service started", slog.String("redis_addr", cfg.Redis.Addr()))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
