package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/indigo-web/engine/conn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectionsHandler(t *testing.T) {
	registry := conn.NewRegistry(zap.NewNop())
	rec := httptest.NewRecorder()
	connectionsHandler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/connections", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body connections
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Zero(t, body.Count)
	require.Empty(t, body.Connections)
}

func TestTLSSetup(t *testing.T) {
	log := zap.NewNop()

	t.Run("disabled", func(t *testing.T) {
		cfg, err := tlsSetup(log, ":8443", "/nonexistent.crt", "/nonexistent.key", false, "")
		require.NoError(t, err)
		require.Nil(t, cfg)
	})

	t.Run("public domain", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
		cfg, err := tlsSetup(log, "example.com:443", "/nonexistent.crt", "/nonexistent.key", true, "example.com")
		require.NoError(t, err)
		require.NotNil(t, cfg.GetCertificate)
	})
}
