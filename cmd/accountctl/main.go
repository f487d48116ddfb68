// Package main содержит консольный клиент gRPC API сервиса аккаунтов.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/account-service/internal/cli"
	"github.com/magabrotheeeer/account-service/internal/grpc/client"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	addr := flag.String("addr", envOr("ACCOUNTS_GRPC_ADDR", "localhost:50051"), "gRPC address of the account service")
	timeout := flag.Duration("timeout", 10*time.Second, "timeout of a single call")
	amqpURL := flag.String("amqp", os.Getenv("ACCOUNTS_AMQP_URL"), "RabbitMQ URL for the watch command")
	exchange := flag.String("exchange", "accounts", "RabbitMQ exchange with account events")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := client.NewAccountClient(*addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer c.Close()

	var watch cli.WatchFunc
	if *amqpURL != "" {
		watch = cli.NewRabbitWatch(*amqpURL, *exchange, logger)
	}
	app := cli.New(c, watch, os.Stdin, os.Stdout, os.Stderr)

	args := flag.Args()
	if len(args) > 0 && args[0] != "watch" {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	if err := app.Execute(ctx, args); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		if st, ok := status.FromError(err); ok {
			fmt.Fprintf(os.Stderr, "error: %s (%s)\n", st.Message(), st.Code())
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
