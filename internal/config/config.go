// Package config loads server configuration from an optional YAML file,
// .env files and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Seed     SeedConfig     `yaml:"seed"`
}

type ServerConfig struct {
	Port         int    `yaml:"port"`
	BaseURL      string `yaml:"base_url"`
	Timezone     string `yaml:"timezone"`
	CookieSecure bool   `yaml:"cookie_secure"`
}

type DatabaseConfig struct {
	Driver        string `yaml:"driver"`
	MongoURI      string `yaml:"mongodb_uri"`
	MongoDatabase string `yaml:"mongodb_database"`
	SQLitePath    string `yaml:"sqlite_path"`
}

type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	Google     OAuthClient   `yaml:"google"`
	GitHub     OAuthClient   `yaml:"github"`
	// DevPasswordHash enables POST /auth/dev/login when set.
	DevPasswordHash string `yaml:"dev_password_hash"`
}

type OAuthClient struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

// Enabled reports whether both client credentials are present.
func (o OAuthClient) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != ""
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type SeedConfig struct {
	UserEmail string `yaml:"user_email"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Driver:        DriverMongo,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "workout-tracker",
			SQLitePath:    "data/ringlog.db",
		},
		Auth: AuthConfig{
			SessionTTL: 30 * 24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration without validating it; the server calls
// Validate, the CLI only ValidateStorage. path may be empty, but a named
// file that does not exist is an error. Values from .env.local and .env
// never override variables already set in the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	cfg.fillDerived()
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	str := map[string]*string{
		"BASE_URL":                &cfg.Server.BaseURL,
		"TIMEZONE":                &cfg.Server.Timezone,
		"DB_DRIVER":               &cfg.Database.Driver,
		"MONGODB_URI":             &cfg.Database.MongoURI,
		"MONGODB_DATABASE":        &cfg.Database.MongoDatabase,
		"DB_PATH":                 &cfg.Database.SQLitePath,
		"JWT_SECRET":              &cfg.Auth.JWTSecret,
		"GOOGLE_CLIENT_ID":        &cfg.Auth.Google.ClientID,
		"GOOGLE_CLIENT_SECRET":    &cfg.Auth.Google.ClientSecret,
		"GOOGLE_CALLBACK_URL":     &cfg.Auth.Google.CallbackURL,
		"GITHUB_CLIENT_ID":        &cfg.Auth.GitHub.ClientID,
		"GITHUB_CLIENT_SECRET":    &cfg.Auth.GitHub.ClientSecret,
		"GITHUB_CALLBACK_URL":     &cfg.Auth.GitHub.CallbackURL,
		"DEV_LOGIN_PASSWORD_HASH": &cfg.Auth.DevPasswordHash,
		"LOG_LEVEL":               &cfg.Log.Level,
		"LOG_FORMAT":              &cfg.Log.Format,
		"LOG_FILE":                &cfg.Log.File,
		"SEED_USER_EMAIL":         &cfg.Seed.UserEmail,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE %q: %w", v, err)
		}
		cfg.Server.CookieSecure = secure
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL %q: %w", v, err)
		}
		cfg.Auth.SessionTTL = ttl
	}
	return nil
}

// fillDerived sets values computed from others, such as callback URLs.
func (c *Config) fillDerived() {
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.Auth.Google.CallbackURL == "" {
		c.Auth.Google.CallbackURL = c.Server.BaseURL + "/auth/google/callback"
	}
	if c.Auth.GitHub.CallbackURL == "" {
		c.Auth.GitHub.CallbackURL = c.Server.BaseURL + "/auth/github/callback"
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)
}

// Validate reports the first problem found in a server configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q", c.Server.Timezone)
	}
	if err := c.ValidateStorage(); err != nil {
		return err
	}
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("auth.jwt_secret must be at least 16 characters")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ValidateStorage checks only the database section.
func (c *Config) ValidateStorage() error {
	switch c.Database.Driver {
	case DriverMongo:
		if c.Database.MongoURI == "" {
			return errors.New("database.mongodb_uri is required for the mongo driver")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("database.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}

// Location returns the configured time zone. Validate has already checked
// that it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
