package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/robfig/cron/v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int           `yaml:"port"             env:"PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`

	DatabasePath string `yaml:"database_path" env:"DATABASE_PATH" env-default:"./planner.db"`

	JWTSecret  string        `yaml:"jwt_secret"  env:"JWT_SECRET"  env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl"   env:"TOKEN_TTL"   env-default:"1h"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"10"`

	// AuthRateLimit uses the limiter format, e.g. "20-M". Empty disables it.
	AuthRateLimit string `yaml:"auth_rate_limit" env:"AUTH_RATE_LIMIT" env-default:"20-M"`
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY" env-default:"false"`

	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000" env-separator:","`

	RotationSchedule string `yaml:"rotation_schedule" env:"ROTATION_SCHEDULE" env-default:"0 0 * * *"`
	RotationTimezone string `yaml:"rotation_timezone" env:"ROTATION_TIMEZONE" env-default:"Local"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	AppEnv   string `yaml:"app_env"   env:"APP_ENV"   env-default:"development"`
}

const minSecretLength = 16

// Load reads configuration from environment variables, optionally layered
// over a YAML file named by CONFIG_PATH.
func Load() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that cleanenv cannot express as tags.
func (c *Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("port %d out of range", c.ServerPort)
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost %d out of range", c.BcryptCost)
	}
	if _, err := cron.ParseStandard(c.RotationSchedule); err != nil {
		return fmt.Errorf("rotation schedule: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("rotation timezone: %w", err)
	}
	for i, origin := range c.AllowedOrigins {
		c.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return nil
}

// Location resolves the timezone the rotation job's midnight is computed in.
func (c *Config) Location() (*time.Location, error) {
	if c.RotationTimezone == "" || c.RotationTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.RotationTimezone)
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
