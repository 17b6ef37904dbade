package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugohenrick/crm-atendimento/internal/adapter/api/dto"
	"github.com/hugohenrick/crm-atendimento/internal/config"
	"github.com/hugohenrick/crm-atendimento/pkg/logger"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "test",
		SQLitePath:         filepath.Join(t.TempDir(), "dados", "atendimento.db"),
		PersistTimeout:     time.Second,
		OutboundWebhookURL: "http://127.0.0.1:1/agente",
		SendTimeout:        time.Second,
		HeartbeatInterval:  time.Hour,
		PollInterval:       time.Hour,
		PublicOrigin:       "http://localhost:8080",
		CORSOrigins:        []string{"*"},
	}
}

func TestNewAppServesHealthAndMetrics(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		app.manager.Close()
		app.hub.Close()
		app.Close()
	})

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "sqlite", health.Storage)

	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "atendimento_")
}

func TestAuthIsEnforcedWhenSecretIsSet(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWTSecretKey = "segredo-de-teste-com-tamanho-suficiente"

	app, err := NewApp(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		app.manager.Close()
		app.hub.Close()
		app.Close()
	})

	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/conversations/5511999999999/state", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// o webhook de entrada não usa o token do painel
	w = httptest.NewRecorder()
	app.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/webhook/inbound", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCorsConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	assert.True(t, all.AllowAllOrigins)
	assert.False(t, all.AllowCredentials)

	restricted := corsConfig([]string{"https://painel.exemplo.com"})
	assert.False(t, restricted.AllowAllOrigins)
	assert.Equal(t, []string{"https://painel.exemplo.com"}, restricted.AllowOrigins)
	assert.True(t, restricted.AllowCredentials)
}

func TestOriginChecker(t *testing.T) {
	assert.Nil(t, originChecker([]string{"*"}))

	check := originChecker([]string{"https://painel.exemplo.com"})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
	assert.True(t, check(req), "sem Origin é aceito")

	req.Header.Set("Origin", "https://painel.exemplo.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://outro.exemplo.com")
	assert.False(t, check(req))
}
