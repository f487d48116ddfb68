// Package grpcserver собирает gRPC-приложение сервиса аккаунтов.
package grpcserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/account-service/internal/app/bootstrap"
	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/grpc/api"
	"github.com/magabrotheeeer/account-service/internal/grpc/server"
	"github.com/magabrotheeeer/account-service/internal/lib/metrics"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
)

type App struct {
	grpcServer *grpc.Server
	listener   net.Listener
	logger     *slog.Logger
	deps       *bootstrap.Deps
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "grpcserver.New"

	deps, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	lis, err := net.Listen("tcp", cfg.AddressGRPC)
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			timeoutInterceptor(cfg.TimeoutGRPC),
			loggingInterceptor(logger),
		),
	)
	api.RegisterAccountServiceServer(grpcServer, server.NewAccountServer(deps.Service, logger))

	return &App{
		grpcServer: grpcServer,
		listener:   lis,
		logger:     logger,
		deps:       deps,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("gRPC server listening on", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()

	defer func() {
		if err := a.deps.Close(); err != nil {
			a.logger.Error("failed to close dependencies", sl.Err(err))
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gRPC server gracefully")
		a.grpcServer.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// timeoutInterceptor ограничивает время обработки одного вызова. Нулевой timeout отключает ограничение.
func timeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if timeout <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return handler(ctx, req)
	}
}

// loggingInterceptor пишет в лог метод, код ответа и длительность и считает вызовы.
func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		metrics.GRPCRequests.WithLabelValues(info.FullMethod, code.String()).Inc()
		logger.Info("grpc call completed",
			slog.String("method", info.FullMethod),
			slog.String("code", code.String()),
			slog.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}
