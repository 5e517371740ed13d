package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"hrportal/internal/api"
	"hrportal/internal/bootstrap"
	"hrportal/internal/config"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	rt, err := bootstrap.New(cfg, logger, asynqClient)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	defer rt.Close()

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, cfg, rt.Service, rt.Redis, logger)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening",
		slog.String("addr", address),
		slog.String("storage_backend", cfg.Storage.Backend),
	)
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
