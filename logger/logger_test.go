package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/anatolia/config"
)

func TestNew_TextInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, &config.Config{Environment: "development", LogLevel: slog.LevelInfo})

	log.Debug("hidden")
	WithSession(log, "abc").Info("moved", "to", "Ege Kiyilari")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "session_id=abc")
	assert.Contains(t, out, `to="Ege Kiyilari"`)
}

func TestNew_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, &config.Config{Environment: "production", LogLevel: slog.LevelDebug})

	WithError(log, errors.New("disk full")).Debug("save failed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "save failed", rec["msg"])
	assert.Equal(t, "disk full", rec["error"])
}

func TestSetup_WritesToFile(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	path := filepath.Join(t.TempDir(), "logs", "anatolia.log")
	log, closer, err := Setup(&config.Config{LogFile: path, LogLevel: slog.LevelInfo})
	require.NoError(t, err)

	log.Info("started")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=started")
}

func TestSetup_Off(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	log, closer, err := Setup(&config.Config{LogFile: config.LogOff})
	require.NoError(t, err)
	assert.False(t, log.Enabled(t.Context(), slog.LevelError))
	assert.NoError(t, closer.Close())
}
