package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	t.Setenv("SHAREIT_DB_PATH", filepath.Join(tmpDir, "shareit.db"))

	yamlContent := `
app:
  name: shareit-test
database:
  path: "${SHAREIT_DB_PATH}"
booking:
  lock_ttl: 3s
api:
  rate_limit:
    rps: 5
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o644))

	// .env is optional
	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "shareit-test", cfg.App.Name)
	assert.Equal(t, filepath.Join(tmpDir, "shareit.db"), cfg.Database.Path)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 3*time.Second, cfg.Booking.LockTTL)
	assert.Equal(t, models.DefaultLockWait*time.Second, cfg.Booking.LockWait)
	assert.Equal(t, 5.0, cfg.API.RateLimit.RPS)
	assert.Equal(t, models.RateLimitBurst, cfg.API.RateLimit.Burst)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() Config {
		cfg := Config{Database: DatabaseConfig{Path: "path"}}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{
			name: "postgres without host",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.Postgres.DBName = "shareit"
			},
			wantErr: true,
		},
		{
			name: "postgres",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.Postgres.Host = "db"
				c.Database.Postgres.DBName = "shareit"
			},
		},
		{name: "negative rate", mutate: func(c *Config) { c.API.RateLimit.RPS = -1 }, wantErr: true},
		{name: "bad gateway url", mutate: func(c *Config) { c.Gateway.ServerURL = "localhost:8080" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Gateway.ServerURL)
	assert.Equal(t, 3, cfg.Gateway.Retry.MaxAttempts)
	assert.Equal(t, models.DefaultLockTTL*time.Second, cfg.Booking.LockTTL)
	assert.Equal(t, 0, cfg.Monitoring.PrometheusPort)

	cfg = &Config{Monitoring: MonitoringConfig{PrometheusEnabled: true}}
	cfg.applyDefaults()
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
}
