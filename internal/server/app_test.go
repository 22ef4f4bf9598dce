package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/runauth/internal/server/config"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "memory://"
	cfg.BcryptCost = 4
	cfg.Environment = "test"
	cfg.ShutdownTimeout = time.Second

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg.EndpointAddrHTTP = l.Addr().String()
	require.NoError(t, l.Close())
	return cfg
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.SecretKey = ""

	_, err := newApp(context.Background(), cfg, io.Discard)
	require.Error(t, err)
}

func TestNewApp_UnknownStore(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.DatabaseDSN = "redis://localhost"

	_, err := newApp(context.Background(), cfg, io.Discard)
	require.Error(t, err)
}

func TestNewApp_UnknownHasher(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.PasswordHasher = "md5"

	_, err := newApp(context.Background(), cfg, io.Discard)
	require.Error(t, err)
}

func TestApp_RunAndStop(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg := memoryConfig(t)

	app, err := newApp(context.Background(), cfg, io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.EndpointAddrHTTP + "/readyz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}
