package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewkit/brewcat/internal/store"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "brewcat.db", cfg.Store.Path)
	assert.Equal(t, store.DefaultTolerance, cfg.Ingest.Tolerance())
	assert.Equal(t, 0.5, cfg.Ingest.DriftWarnRatio)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BREWCAT_STORE_DRIVER", "postgres")
	t.Setenv("BREWCAT_STORE_DATABASE_URL", "postgres://localhost/brewcat")
	t.Setenv("BREWCAT_INGEST_NOISE_ABS", "1.0")
	t.Setenv("BREWCAT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/brewcat", cfg.Store.DatabaseURL)
	assert.Equal(t, 1.0, cfg.Ingest.Tolerance().Abs)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "chatty", Format: "json"}))
}
