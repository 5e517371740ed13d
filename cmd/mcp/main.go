package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"hrportal/internal/bootstrap"
	"hrportal/internal/config"
	"hrportal/internal/mcpserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// stdout 承载 MCP 协议，日志只能写 stderr。
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	rt, err := bootstrap.New(cfg, logger, asynqClient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	if err := mcpserver.New(rt.Service, logger).ServeStdio(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
