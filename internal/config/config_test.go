package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.toml"))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sqlite", cfg.VectorStore.Backend)
	assert.Equal(t, 4, cfg.Retrieval.DefaultK)
	assert.Equal(t, 7, cfg.Retrieval.MaxTimetableDates)
	assert.Equal(t, 11, cfg.Timetable.PivotMonth)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	body := `
[app]
port = 9090

[vector_store]
backend = "pgvector"

[retrieval]
default_k = 6
max_timetable_dates = 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RETRIEVAL_DEFAULT_K", "8")
	t.Setenv("LLM_ROUTER_TEMPERATURE", "0.2")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "pgvector", cfg.VectorStore.Backend)
	assert.Equal(t, 8, cfg.Retrieval.DefaultK)
	assert.Equal(t, 3, cfg.Retrieval.MaxTimetableDates)
	assert.InDelta(t, 0.2, cfg.LLM.RouterTemperature, 1e-9)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadEnvFile(t *testing.T) {
	dir := isolate(t)
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("LLM_CHAT_MODEL=solar-mini\n"), 0o644))
	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() { os.Unsetenv("LLM_CHAT_MODEL") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "solar-mini", cfg.LLM.ChatModel)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	isolate(t)
	t.Setenv("VECTOR_STORE_BACKEND", "faiss")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "faiss")
}

func TestInvalidNumbersFallBack(t *testing.T) {
	isolate(t)
	t.Setenv("APP_PORT", "not-a-port")
	t.Setenv("MYSQL_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.False(t, cfg.MySQL.Enabled)
}

func TestLoadFileOverridesConfigEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cli.toml")
	require.NoError(t, os.WriteFile(path, []byte("[app]\nport = 7070\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.App.Port)
}
