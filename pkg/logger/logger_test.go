package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Output: &buf})

	log.Info("mensagem enviada", "telefone", "5511999999999", "tentativas", 2, "error", errors.New("falhou"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "mensagem enviada", entry["message"])
	assert.Equal(t, "5511999999999", entry["telefone"])
	assert.Equal(t, float64(2), entry["tentativas"])
	assert.Equal(t, "falhou", entry["error"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Output: &buf})

	log.Debug("ignorado")
	log.Info("ignorado")
	assert.Zero(t, buf.Len())

	log.Warn("registrado")
	assert.Contains(t, buf.String(), "registrado")
}

func TestLoggerOddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf})

	log.Error("sem par", "sozinho")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sozinho", entry["extra"])
}

func TestZerologExposesUnderlyingLogger(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Output: &buf})

	zl := Zerolog(log)
	zl.Info().Str("path", "/api/v1/health").Msg("requisição concluída")

	assert.Contains(t, buf.String(), `"path":"/api/v1/health"`)
}
