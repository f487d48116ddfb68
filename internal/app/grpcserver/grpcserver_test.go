package grpcserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/account-service/internal/config"
	"github.com/magabrotheeeer/account-service/internal/grpc/api"
	"github.com/magabrotheeeer/account-service/internal/grpc/client"
	"github.com/magabrotheeeer/account-service/internal/lib/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTimeoutInterceptor(t *testing.T) {
	var deadline time.Time
	var ok bool
	handler := func(ctx context.Context, _ any) (any, error) {
		deadline, ok = ctx.Deadline()
		return nil, nil
	}

	_, err := timeoutInterceptor(time.Second)(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)

	_, err = timeoutInterceptor(0)(context.Background(), nil, &grpc.UnaryServerInfo{}, handler)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoggingInterceptor_CountsCalls(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: api.MethodGet}
	counter := metrics.GRPCRequests.WithLabelValues(api.MethodGet, codes.NotFound.String())
	before := testutil.ToFloat64(counter)

	_, err := loggingInterceptor(discardLogger())(context.Background(), nil, info,
		func(context.Context, any) (any, error) {
			return nil, status.Error(codes.NotFound, "account not found")
		})
	require.Error(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	_, err = loggingInterceptor(discardLogger())(context.Background(), nil, info,
		func(context.Context, any) (any, error) { return nil, errors.New("boom") })
	assert.Equal(t, codes.Unknown, status.Code(err))
}

func TestApp_ServesOverTCP(t *testing.T) {
	cfg := &config.Config{Env: "test"}
	cfg.Driver = config.DriverMemory
	cfg.AddressGRPC = "127.0.0.1:0"
	cfg.TimeoutGRPC = 5 * time.Second

	app, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	c, err := client.NewAccountClient(app.listener.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer callCancel()
	acc, err := c.Create(callCtx, "Alice", "alice", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(1), acc.ID)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
