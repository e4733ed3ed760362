package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ServerConfig{
		Addr:           ":8080",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxUploadBytes: 32 << 20,
	}, cfg.Server)
	assert.Equal(t, LoggingConfig{Level: "info", Format: "json"}, cfg.Logging)
	assert.Equal(t, EngineConfig{MatchCutoff: 0.4, Workers: 4}, cfg.Engine)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SHEETFLAT_SERVER_ADDR", ":9090")
	t.Setenv("SHEETFLAT_SERVER_READ_TIMEOUT", "5s")
	t.Setenv("SHEETFLAT_LOGGING_LEVEL", "debug")
	t.Setenv("SHEETFLAT_LOGGING_FORMAT", "text")
	t.Setenv("SHEETFLAT_ENGINE_MATCH_CUTOFF", "0.6")
	t.Setenv("SHEETFLAT_ENGINE_KEEP_PARTIAL", "true")
	t.Setenv("SHEETFLAT_ENGINE_SYNONYMS", "true")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 0.6, cfg.Engine.MatchCutoff)
	assert.True(t, cfg.Engine.KeepPartial)
	assert.True(t, cfg.Engine.Synonyms)
	assert.Equal(t, 4, cfg.Engine.Workers)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SHEETFLAT_ENGINE_WORKERS"
	_, present := os.LookupEnv(key)
	require.False(t, present)
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=7\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Engine.Workers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHEETFLAT_LOGGING_LEVEL", "loud"},
		{"SHEETFLAT_LOGGING_FORMAT", "xml"},
		{"SHEETFLAT_ENGINE_MATCH_CUTOFF", "0"},
		{"SHEETFLAT_ENGINE_MATCH_CUTOFF", "1.5"},
		{"SHEETFLAT_ENGINE_WORKERS", "0"},
		{"SHEETFLAT_SERVER_MAX_UPLOAD_BYTES", "-1"},
		{"SHEETFLAT_SERVER_READ_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.Engine.Workers = 0
	assert.Error(t, cfg.Validate())
}
