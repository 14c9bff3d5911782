package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "eventlens", cfg.Service.Name)
	assert.Equal(t, 8086, cfg.Service.Port)
	assert.Equal(t, "en", cfg.Service.DefaultLanguage)
	assert.Equal(t, "llama3.1:8b", cfg.LLM.Model)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 100, cfg.Cache.MaxSize)
	assert.Equal(t, 300*time.Second, cfg.Cache.Expiry)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "service:\n  port: 9000\n  debug: true\ndata:\n  csv_path: /data/alarms.csv\nllm:\n  model: mistral\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Service.Port)
	assert.True(t, cfg.Service.Debug)
	assert.Equal(t, "/data/alarms.csv", cfg.Data.CSVPath)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	// Untouched keys still get defaults.
	assert.Equal(t, "http://localhost:11434", cfg.LLM.URL)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8086, cfg.Service.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("MODEL", "llama3.2")
	t.Setenv("CACHE_EXPIRY_SECONDS", "60")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Service.Port)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.Equal(t, time.Minute, cfg.Cache.Expiry)
}

func TestInvalidPort(t *testing.T) {
	t.Setenv("APP_PORT", "99999")

	_, err := Load("")
	assert.Error(t, err)
}
