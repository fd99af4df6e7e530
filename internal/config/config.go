package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Dev      bool // allows a built-in JWT secret and insecure cookies
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Addr     string // application listen address (e.g., ":3333")
	DiagAddr string // metrics listen address (e.g., ":9999")
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	URL string // database url, see github.com/xo/dburl
}

// AuthConfig contains session and token settings.
type AuthConfig struct {
	JWTSecret       string        // API token signing secret
	TokenTTL        time.Duration // API token lifetime
	SessionLifetime time.Duration // login session lifetime
}

const envPrefix = "BLOG_"

const devSecret = "dev-secret-change-me"

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":3333",
			DiagAddr: ":9999",
		},
		Database: DatabaseConfig{
			URL: "sqlite3:blog.sqlite3?_busy_timeout=10000&_journal=WAL&_sync=NORMAL",
		},
		Auth: AuthConfig{
			TokenTTL:        24 * time.Hour,
			SessionLifetime: 12 * time.Hour,
		},
	}
}

// Load builds the configuration from defaults, then the ini file at path (if
// path is not empty), then BLOG_* environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if err := cfg.loadIni(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		if !cfg.Dev {
			return nil, fmt.Errorf("%sJWT_SECRET is not set; required unless %sDEV is set", envPrefix, envPrefix)
		}
		cfg.Auth.JWTSecret = devSecret
	}

	return cfg, nil
}

func (c *Config) loadIni(path string) error {
	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("load config file: %w", err)
	}

	c.Dev = f.Section("").Key("dev").MustBool(c.Dev)

	server := f.Section("server")
	c.Server.Addr = server.Key("addr").MustString(c.Server.Addr)
	c.Server.DiagAddr = server.Key("diag_addr").MustString(c.Server.DiagAddr)

	c.Database.URL = f.Section("database").Key("url").MustString(c.Database.URL)

	auth := f.Section("auth")
	c.Auth.JWTSecret = auth.Key("jwt_secret").MustString(c.Auth.JWTSecret)
	c.Auth.TokenTTL = auth.Key("token_ttl").MustDuration(c.Auth.TokenTTL)
	c.Auth.SessionLifetime = auth.Key("session_lifetime").MustDuration(c.Auth.SessionLifetime)

	return nil
}

func (c *Config) loadEnv() error {
	var err error

	c.Server.Addr = getEnv("ADDR", c.Server.Addr)
	c.Server.DiagAddr = getEnv("DIAG_ADDR", c.Server.DiagAddr)
	c.Database.URL = getEnv("DB", c.Database.URL)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)

	if c.Dev, err = getEnvBool("DEV", c.Dev); err != nil {
		return err
	}
	if c.Auth.TokenTTL, err = getEnvDuration("TOKEN_TTL", c.Auth.TokenTTL); err != nil {
		return err
	}
	if c.Auth.SessionLifetime, err = getEnvDuration("SESSION_LIFETIME", c.Auth.SessionLifetime); err != nil {
		return err
	}

	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		return value
	}

	return defaultVal
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid boolean for %s%s: %w", envPrefix, key, err)
		}

		return b, nil
	}

	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(envPrefix + key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s%s: %w", envPrefix, key, err)
		}

		return d, nil
	}

	return defaultVal, nil
}

// String returns a string representation of the config (the secret is masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Addr: %s, Diag: %s, DB: %s, Auth: *** (masked) ***, Dev: %t}",
		c.Server.Addr, c.Server.DiagAddr, c.Database.URL, c.Dev)
}
