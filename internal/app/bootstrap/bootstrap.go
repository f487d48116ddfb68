// Package bootstrap собирает зависимости сервиса аккаунтов из конфига:
// хранилище, кеш, публикатор событий и сам сервис. Используется
// HTTP- и gRPC-приложениями.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/account-service/internal/cache"
	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/migrations"
	"github.com/magabrotheeeer/account-service/internal/rabbitmq"
	"github.com/magabrotheeeer/account-service/internal/services/account"
	"github.com/magabrotheeeer/account-service/internal/storage"
	"github.com/magabrotheeeer/account-service/internal/storage/memory"
)

const (
	rabbitRetries = 5
	rabbitDelay   = 2 * time.Second
)

// Store — хранилище аккаунтов с проверкой доступности.
type Store interface {
	account.Repository
	Ping(ctx context.Context) error
	Close() error
}

// Deps — собранные зависимости. Close освобождает их в обратном порядке.
type Deps struct {
	Store   Store
	Service *account.Service

	closers []func() error
}

// New собирает зависимости. Redis и RabbitMQ подключаются, только если заданы их адреса.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Deps, error) {
	const op = "bootstrap.New"
	d := &Deps{}

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	d.Store = store
	d.closers = append(d.closers, store.Close)

	var accountCache account.Cache
	if cfg.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		accountCache = redisCache
		d.closers = append(d.closers, redisCache.Close)
		log.Info("redis cache enabled", slog.String("address", cfg.AddressRedis))
	}

	var events account.EventPublisher
	if cfg.URL != "" {
		conn, err := rabbitmq.Connect(cfg.URL, rabbitRetries, rabbitDelay)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		d.closers = append(d.closers, conn.Close)
		ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.AccountQueues())
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		d.closers = append(d.closers, ch.Close)
		events = rabbitmq.NewAccountPublisher(ch, cfg.Exchange)
		log.Info("account events enabled", slog.String("exchange", cfg.Exchange))
	}

	d.Service = account.NewService(store, accountCache, events, log, account.WithCacheTTL(cfg.CacheTTL))
	return d, nil
}

func newStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	case config.DriverPostgres:
		db, err := storage.New(ctx, cfg.ConnectionString)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, err
		}
		if err := storage.CheckDatabaseReady(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// Close закрывает все открытые подключения и возвращает объединённую ошибку.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
