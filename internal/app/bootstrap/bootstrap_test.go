package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/storage/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func memoryConfig() *config.Config {
	cfg := &config.Config{Env: "test"}
	cfg.Driver = config.DriverMemory
	cfg.CacheTTL = time.Minute
	return cfg
}

func TestNew_MemoryStore(t *testing.T) {
	ctx := context.Background()
	deps, err := New(ctx, memoryConfig(), discardLogger())
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &memory.Storage{}, deps.Store)
	require.NoError(t, deps.Store.Ping(ctx))

	acc, err := deps.Service.Create(ctx, models.CreateInput{Name: "Alice", Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), acc.ID)
}

func TestNew_WithRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := memoryConfig()
	cfg.AddressRedis = mr.Addr()

	deps, err := New(ctx, cfg, discardLogger())
	require.NoError(t, err)
	defer deps.Close()

	acc, err := deps.Service.Create(ctx, models.CreateInput{Name: "Alice", Username: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = deps.Service.GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys())
}

func TestNew_RedisUnavailable(t *testing.T) {
	cfg := memoryConfig()
	cfg.AddressRedis = "127.0.0.1:1"
	cfg.DialTimeout = 100 * time.Millisecond

	_, err := New(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Driver = "sqlite"

	_, err := New(context.Background(), cfg, discardLogger())
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestDeps_CloseReverseOrderAndJoin(t *testing.T) {
	var order []int
	first := errors.New("first")
	d := &Deps{closers: []func() error{
		func() error { order = append(order, 1); return first },
		func() error { order = append(order, 2); return nil },
		func() error { order = append(order, 3); return nil },
	}}

	err := d.Close()
	assert.ErrorIs(t, err, first)
	assert.Equal(t, []int{3, 2, 1}, order)
	assert.NoError(t, d.Close())
}
