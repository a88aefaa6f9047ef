package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Addr        string `env:"APP_ADDR"    envDefault:":8080"`
	Environment string `env:"APP_ENV"     envDefault:"development"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"12h"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`

	RunSeed           bool   `env:"RUN_SEED" envDefault:"true"`
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"    envDefault:"admin@gestion-ses.local"`
	SeedAdminName     string `env:"SEED_ADMIN_NAME"     envDefault:"Administrateur"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:""`

	// LeaveSweepInterval drives the periodic leave status recompute pass.
	LeaveSweepInterval time.Duration `env:"LEAVE_SWEEP_INTERVAL" envDefault:"60s"`
	// LeaveAllowanceDays is the annual leave entitlement per employee.
	LeaveAllowanceDays int `env:"LEAVE_ALLOWANCE_DAYS" envDefault:"30"`

	MaxBodyBytes   int64  `env:"MAX_BODY_BYTES"  envDefault:"4194304"`
	CORSOrigins    string `env:"CORS_ORIGINS"    envDefault:"*"`
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" && c.Environment == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.RunSeed && c.Environment == "production" && strings.TrimSpace(c.SeedAdminPassword) == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
	}
	if c.LeaveSweepInterval <= 0 {
		return fmt.Errorf("LEAVE_SWEEP_INTERVAL must be positive")
	}
	if c.LeaveAllowanceDays <= 0 {
		return fmt.Errorf("LEAVE_ALLOWANCE_DAYS must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}

func (c Config) CORSOriginList() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
