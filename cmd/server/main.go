package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/nba-game-recommender/internal/config"
	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
	"github.com/preston-bernstein/nba-game-recommender/internal/server"
)

const (
	appVersion  = "dev"
	serviceName = "nba-game-recommender"
	envSkipRun  = "SKIP_SERVER_RUN"
)

func main() {
	if os.Getenv(envSkipRun) == "1" {
		return
	}
	os.Exit(run(config.Load(), newLogger()))
}

func newLogger() *slog.Logger {
	return logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: serviceName,
		Version: appVersion,
	})
}

// run blocks until SIGINT/SIGTERM and returns the process exit code.
func run(cfg config.Config, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logging.Error(logger, "server setup failed", err)
		return 1
	}
	srv.Run(ctx, stop)
	return 0
}
