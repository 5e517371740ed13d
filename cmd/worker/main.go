package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"hrportal/internal/bootstrap"
	"hrportal/internal/config"
	"hrportal/internal/metrics"
	"hrportal/internal/pdf"
	"hrportal/internal/tasks"
	"hrportal/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// worker 本身不投递任务，Service 不需要任务队列。
	rt, err := bootstrap.New(cfg, logger, nil)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer rt.Close()

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr()}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 4,
	})

	payslipHandler := worker.NewPayslipTaskHandler(rt.Service, pdf.NewRodRenderer(), rt.Redis, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypePayslipRender, payslipHandler)

	logger.Info("worker service started", slog.String("redis_addr", cfg.Redis.Addr()))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
