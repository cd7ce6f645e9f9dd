package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/api/auth/login", cfg.API.Endpoints.Login)
	assert.Equal(t, "/api/auth/profile", cfg.API.Endpoints.Profile)
	assert.Equal(t, "/api/history", cfg.API.Endpoints.History)
	assert.Equal(t, "keyring", cfg.Store)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://movies.example.com/
  timeout: 3s
  endpoints:
    profile: /api/v2/profile
store: memory
`), 0o600))
	t.Setenv("MOVIECAT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://movies.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/api/v2/profile", cfg.API.Endpoints.Profile)
	assert.Equal(t, "/api/auth/login", cfg.API.Endpoints.Login)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	cfg.API.BaseURL = "https://movies.example.com"
	cfg.API.Timeout = 4 * time.Second
	cfg.Store = "sqlite"
	require.NoError(t, Save(path, cfg))

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://movies.example.com", again.API.BaseURL)
	assert.Equal(t, 4*time.Second, again.API.Timeout)
	assert.Equal(t, "sqlite", again.Store)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			API:   API{BaseURL: "http://localhost:5000", Timeout: time.Second},
			Store: "memory",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no scheme", mutate: func(c *Config) { c.API.BaseURL = "localhost:5000" }},
		{name: "ftp scheme", mutate: func(c *Config) { c.API.BaseURL = "ftp://host" }},
		{name: "zero timeout", mutate: func(c *Config) { c.API.Timeout = 0 }},
		{name: "unknown store", mutate: func(c *Config) { c.Store = "redis://localhost" }},
	}

	require.NoError(t, Validate(base()))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, Validate(c))
		})
	}
}
