// Package common provides shared utilities for the intake server
package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the intake server
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Clients     ClientsConfig  `toml:"clients"`
	Sessions    SessionsConfig `toml:"sessions"`
	Cache       CacheConfig    `toml:"cache"`
	Storage     StorageConfig  `toml:"storage"`
	Auth        AuthConfig     `toml:"auth"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds outbound client configurations
type ClientsConfig struct {
	Advisory AdvisoryConfig `toml:"advisory"`
	PDF      PDFConfig      `toml:"pdf"`
	Manual   ManualConfig   `toml:"manual"`
	Gemini   GeminiConfig   `toml:"gemini"`
}

// AdvisoryConfig holds the advisory backend configuration
type AdvisoryConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *AdvisoryConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// PDFConfig holds the PDF rendering service configuration
type PDFConfig struct {
	BaseURL   string `toml:"base_url"`
	Template  string `toml:"template"`
	BlurFunds bool   `toml:"blur_funds"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *PDFConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 60*time.Second)
}

// ManualConfig holds the manual allocation service configuration
type ManualConfig struct {
	BaseURL string `toml:"base_url"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// SessionsConfig controls the in-memory wizard session registry
type SessionsConfig struct {
	TTL string `toml:"ttl"`
}

// GetTTL parses and returns the session idle expiry
func (c *SessionsConfig) GetTTL() time.Duration {
	return parseDuration(c.TTL, 2*time.Hour)
}

// CacheConfig controls caching of read-only backend endpoints
type CacheConfig struct {
	TTL string `toml:"ttl"`
}

// GetTTL parses and returns the cache expiry
func (c *CacheConfig) GetTTL() time.Duration {
	return parseDuration(c.TTL, 15*time.Minute)
}

// StorageConfig holds the proposal archive connection. An empty address keeps
// the archive in memory.
type StorageConfig struct {
	Address   string `toml:"address"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// AuthConfig holds advisor authentication configuration.
type AuthConfig struct {
	JWTSecret   string          `toml:"jwt_secret"`
	TokenExpiry string          `toml:"token_expiry"` // duration string, default "24h"
	Advisors    []AdvisorConfig `toml:"advisors"`
}

// AdvisorConfig is a single advisor account with a bcrypt password hash.
type AdvisorConfig struct {
	Username     string `toml:"username"`
	Name         string `toml:"name"`
	PasswordHash string `toml:"password_hash"`
}

// Enabled reports whether session routes require a bearer token.
func (c *AuthConfig) Enabled() bool {
	return c.JWTSecret != "" && len(c.Advisors) > 0
}

// FindAdvisor returns the advisor with the given username, or nil.
func (c *AuthConfig) FindAdvisor(username string) *AdvisorConfig {
	for i := range c.Advisors {
		if strings.EqualFold(c.Advisors[i].Username, username) {
			return &c.Advisors[i]
		}
	}
	return nil
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	return parseDuration(c.TokenExpiry, 24*time.Hour)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8085,
		},
		Clients: ClientsConfig{
			Advisory: AdvisoryConfig{
				BaseURL:   "http://localhost:5000",
				RateLimit: 10,
				Timeout:   "30s",
			},
			PDF: PDFConfig{
				BaseURL:  "http://127.0.0.1:8000",
				Template: "default",
				Timeout:  "60s",
			},
			Manual: ManualConfig{
				BaseURL: "http://localhost:5000",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Sessions: SessionsConfig{TTL: "2h"},
		Cache:    CacheConfig{TTL: "15m"},
		Storage: StorageConfig{
			Namespace: "intake",
			Database:  "intake",
		},
		Auth: AuthConfig{
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console", "file"},
			FilePath:   "./logs/intake.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("INTAKE_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("INTAKE_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("INTAKE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("INTAKE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("INTAKE_ADVISORY_URL"); v != "" {
		config.Clients.Advisory.BaseURL = v
	}
	if v := os.Getenv("INTAKE_PDF_URL"); v != "" {
		config.Clients.PDF.BaseURL = v
	}
	if v := os.Getenv("INTAKE_MANUAL_URL"); v != "" {
		config.Clients.Manual.BaseURL = v
	}

	// Gemini key accepts the conventional Google variable names too
	for _, name := range []string{"INTAKE_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			config.Clients.Gemini.APIKey = v
			break
		}
	}

	if v := os.Getenv("INTAKE_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("INTAKE_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("INTAKE_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	if v := os.Getenv("INTAKE_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("INTAKE_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// ApplyFlagOverrides applies command-line flag values. Zero values are ignored.
func ApplyFlagOverrides(config *Config, host string, port int) {
	if host != "" {
		config.Server.Host = host
	}
	if port > 0 {
		config.Server.Port = port
	}
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Clients.Advisory.BaseURL == "" {
		errs = append(errs, errors.New("clients.advisory.base_url is required"))
	}
	if c.Clients.PDF.BaseURL == "" {
		errs = append(errs, errors.New("clients.pdf.base_url is required"))
	}
	for _, a := range c.Auth.Advisors {
		if a.Username == "" || a.PasswordHash == "" {
			errs = append(errs, errors.New("auth.advisors entries need username and password_hash"))
			break
		}
	}
	if len(c.Auth.Advisors) > 0 && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required when advisors are configured"))
	}
	if c.IsProduction() && c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 32 characters in production"))
	}
	return errors.Join(errs...)
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
