// Package config loads relabel settings from a YAML file, a .env file and
// RELABEL_* environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override
const EnvPrefix = "RELABEL_"

var validate = validator.New()

// Config represents the application configuration
type Config struct {
	Server      ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Database    DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Auth        AuthConfig     `yaml:"auth" envPrefix:"AUTH_"`
	Hub         HubConfig      `yaml:"hub" envPrefix:"HUB_"`
	Log         LogConfig      `yaml:"log" envPrefix:"LOG_"`
	Client      ClientConfig   `yaml:"client" envPrefix:"CLIENT_"`
	KeyMappings KeyMappings    `yaml:"key_mappings"`
	Theme       Theme          `yaml:"theme" envPrefix:"THEME_"`
}

// ServerConfig configures `relabel serve`
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
}

// DatabaseConfig locates the sqlite file
type DatabaseConfig struct {
	Path string `yaml:"path" env:"PATH" validate:"required"`
}

// AuthConfig configures token signing
type AuthConfig struct {
	Secret   string        `yaml:"secret" env:"SECRET"`
	Issuer   string        `yaml:"issuer" env:"ISSUER"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"TOKEN_TTL" validate:"gt=0"`
}

// HubConfig tunes event fan-out
type HubConfig struct {
	SubscriberBuffer int           `yaml:"subscriber_buffer" env:"SUBSCRIBER_BUFFER" validate:"gt=0"`
	PingInterval     time.Duration `yaml:"ping_interval" env:"PING_INTERVAL" validate:"gt=0"`
}

// LogConfig configures logging.Init
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=text json"`
	File   string `yaml:"file" env:"FILE"` // "-" logs to stderr
}

// ClientConfig is used by the CLI commands that talk to a running server
type ClientConfig struct {
	Server string `yaml:"server" env:"SERVER" validate:"required,url"`
	Token  string `yaml:"token" env:"TOKEN"`
}

// Default returns a config with every field set to its default
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads config from the user's config directory, then applies a .env file
// in the working directory and RELABEL_* environment overrides.
// A missing config file is not an error.
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		path = ""
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	// Load theme from RELABEL_THEME_FILE if set
	loadThemeFile(&cfg)

	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Fill in any missing values with defaults
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}

// Path returns the config file location
func Path() (string, error) {
	return getConfigPath()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "relabel", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "relabel", "config.yaml"), nil
}

// dataDir is where the database and logs live by default
func dataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".relabel"
	}
	return filepath.Join(homeDir, ".relabel")
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(dataDir(), "relabel.db")
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = "relabel"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Hub.SubscriberBuffer == 0 {
		c.Hub.SubscriberBuffer = 64
	}
	if c.Hub.PingInterval == 0 {
		c.Hub.PingInterval = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dataDir(), "logs", "relabel.log")
	}
	if c.Client.Server == "" {
		c.Client.Server = "http://localhost:8080"
	}
	c.KeyMappings.applyDefaults()
	c.Theme.ApplyDefaults()
}
