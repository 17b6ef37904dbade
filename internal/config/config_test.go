package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OUTBOUND_WEBHOOK_URL", "https://agente.example.com/webhook")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.SendTimeout)
	assert.Equal(t, 45*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OUTBOUND_WEBHOOK_URL", "https://agente.example.com/webhook")
	t.Setenv("SEND_TIMEOUT", "12s")
	t.Setenv("POLL_INTERVAL", "invalido")
	t.Setenv("RECEIVER_ENABLED", "true")
	t.Setenv("PUBLIC_ORIGIN", "https://crm.example.com/")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "crm")

	cfg := Load()

	assert.Equal(t, 12*time.Second, cfg.SendTimeout)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.True(t, cfg.ReceiverEnabled)
	assert.Equal(t, "https://crm.example.com", cfg.PublicOrigin)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "postgres://postgres:postgres@db:5432/crm?sslmode=disable", cfg.DatabaseURL)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Env: "production", OutboundWebhookURL: "https://x"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecretKey = "segredo"
	assert.NoError(t, cfg.Validate())

	cfg.OutboundWebhookURL = ""
	assert.Error(t, cfg.Validate())
}
