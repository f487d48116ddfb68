// Package main содержит точку входа gRPC-сервера аккаунтов.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/account-service/internal/app/grpcserver"
	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env)

	logger.Info("starting account-grpc", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := grpcserver.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize grpc app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("grpc app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("account-grpc stopped gracefully")
}
