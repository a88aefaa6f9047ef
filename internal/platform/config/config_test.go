package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ses")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 60*time.Second, cfg.LeaveSweepInterval)
	assert.Equal(t, 30, cfg.LeaveAllowanceDays)
	assert.True(t, cfg.RunMigrations)
	require.NoError(t, cfg.Validate())
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := Config{LeaveSweepInterval: time.Minute, LeaveAllowanceDays: 30, MaxBodyBytes: 4096}
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionGuards(t *testing.T) {
	cfg := Config{
		DatabaseURL:        "postgres://localhost/ses",
		Environment:        "production",
		LeaveSweepInterval: time.Minute,
		LeaveAllowanceDays: 30,
		MaxBodyBytes:       4096,
	}
	assert.Error(t, cfg.Validate(), "missing JWT secret in production")

	cfg.JWTSecret = "secret"
	cfg.RunSeed = true
	assert.Error(t, cfg.Validate(), "seed without admin password in production")

	cfg.SeedAdminPassword = "changeme"
	assert.NoError(t, cfg.Validate())
}

func TestCORSOriginList(t *testing.T) {
	cfg := Config{CORSOrigins: "https://app.example.com, https://admin.example.com"}
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSOriginList())
}
