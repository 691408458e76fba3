// Package config loads service settings from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Directory backends.
const (
	BackendMemory   = "memory"
	BackendKeycloak = "keycloak"
	BackendPostgres = "postgres"
)

// Production is the APP_ENV value that switches logging to JSON.
const Production = "production"

// KeycloakOptions configures the Keycloak admin client.
type KeycloakOptions struct {
	URL          string        `env:"KEYCLOAK_URL"`
	Realm        string        `env:"KEYCLOAK_REALM" envDefault:"master"`
	ClientID     string        `env:"KEYCLOAK_CLIENT_ID"`
	ClientSecret string        `env:"KEYCLOAK_CLIENT_SECRET"`
	Timeout      time.Duration `env:"KEYCLOAK_TIMEOUT" envDefault:"10s"`
	Cache        bool          `env:"KEYCLOAK_CACHE" envDefault:"false"`
}

// DatabaseOptions configures the PostgreSQL directory.
type DatabaseOptions struct {
	URL      string `env:"DATABASE_URL"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns int32  `env:"DB_MIN_CONNS" envDefault:"2"`
}

// AuthOptions configures bearer token validation. An empty secret disables it.
type AuthOptions struct {
	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"hermes"`
}

// Config is the full service configuration.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Backend  string `env:"DIRECTORY_BACKEND" envDefault:"memory"`

	Keycloak KeycloakOptions
	Database DatabaseOptions
	Auth     AuthOptions
}

// LoadEnv loads the env files that exist. Variables already set in the
// environment win. It returns the number of files loaded.
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads .env and .env.local, parses the environment and validates the result.
func Load() (*Config, error) {
	if _, err := LoadEnv(".env", ".env.local"); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the current environment and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces backend-specific requirements.
func (c *Config) Validate() error {
	var errs []error
	switch c.Backend {
	case BackendMemory:
	case BackendKeycloak:
		if c.Keycloak.URL == "" {
			errs = append(errs, errors.New("KEYCLOAK_URL is required for the keycloak backend"))
		}
		if c.Keycloak.ClientID == "" || c.Keycloak.ClientSecret == "" {
			errs = append(errs, errors.New("KEYCLOAK_CLIENT_ID and KEYCLOAK_CLIENT_SECRET are required for the keycloak backend"))
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
		if c.Database.MinConns > c.Database.MaxConns {
			errs = append(errs, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DIRECTORY_BACKEND %q", c.Backend))
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == Production
}

// AuthEnabled reports whether bearer tokens are required on the API.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}
