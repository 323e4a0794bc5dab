package server

import (
	"context"
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"socialhub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlainServer(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 8088

	s := New(cfg, http.NotFoundHandler())
	assert.Equal(t, ":8088", s.Addr())
	assert.Nil(t, s.srv.TLSConfig)
	assert.NoError(t, s.ValidateCertificates())
}

func TestNewTLSServer(t *testing.T) {
	cfg := config.Default()
	cfg.Server.TLS.Enabled = true
	cfg.Server.TLS.CertFile = "missing.crt"
	cfg.Server.TLS.KeyFile = "missing.key"

	s := New(cfg, http.NotFoundHandler())
	require.NotNil(t, s.srv.TLSConfig)
	assert.Equal(t, uint16(tls.VersionTLS12), s.srv.TLSConfig.MinVersion)
	assert.Error(t, s.ValidateCertificates())
}

func TestShutdownStopsStart(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 0

	s := New(cfg, http.NotFoundHandler())
	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// 等待监听开始
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
