// Package config loads application settings from command-line flags,
// environment variables, a .env file and defaults, in that order of precedence.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Duplicate policies accepted by DUPLICATE_POLICY.
const (
	DuplicatesReject = "reject"
	DuplicatesAllow  = "allow"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Store  StoreConfig
	Remote RemoteConfig
	Server ServerConfig
	List   ListConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StoreConfig locates the local database.
type StoreConfig struct {
	// DataPath is the Badger directory. "memory" keeps everything in RAM.
	DataPath string
}

// InMemory reports whether the store should not touch disk.
func (s StoreConfig) InMemory() bool {
	return s.DataPath == "memory"
}

// RemoteConfig configures the backend client.
type RemoteConfig struct {
	// BaseURL is used until the user stores their own.
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// ServerConfig configures the local API.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RequestsPerSecond limits each client address.
	RequestsPerSecond float64
	RequestBurst      int
}

// ListConfig holds reconciliation rules.
type ListConfig struct {
	DuplicatePolicy string
	CascadeDeletes  bool
}

// Overrides carries values from command-line flags. Empty fields fall through
// to the environment.
type Overrides struct {
	EnvFile         string
	Environment     string
	LogLevel        string
	DataPath        string
	RemoteURL       string
	RemoteTimeout   string
	Port            string
	DuplicatePolicy string
	CascadeDeletes  string
}

// Load builds the configuration with precedence:
// 1. Overrides (command-line flags).
// 2. Environment variables.
// 3. .env file.
// 4. Defaults.
func Load(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := loadEnvFile(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: value(o.Environment, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: value(o.LogLevel, "LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			DataPath: value(o.DataPath, "DATA_PATH", ""),
		},
		Remote: RemoteConfig{
			BaseURL: value(o.RemoteURL, "REMOTE_URL", "http://localhost:5000/api"),
			RPS:     floatValue("", "REMOTE_RPS", 5),
			Burst:   intValue("", "REMOTE_BURST", 10),
		},
		Server: ServerConfig{
			Port:              value(o.Port, "SERVER_PORT", "7420"),
			RequestsPerSecond: floatValue("", "SERVER_RPS", 20),
			RequestBurst:      intValue("", "SERVER_BURST", 40),
		},
		List: ListConfig{
			DuplicatePolicy: strings.ToLower(value(o.DuplicatePolicy, "DUPLICATE_POLICY", DuplicatesReject)),
			CascadeDeletes:  boolValue(o.CascadeDeletes, "CASCADE_DELETES", true),
		},
	}

	var err error
	durations := []struct {
		dst      *time.Duration
		flag     string
		env, def string
	}{
		{&cfg.Remote.Timeout, o.RemoteTimeout, "REMOTE_TIMEOUT", "10s"},
		{&cfg.Server.ReadTimeout, "", "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, "", "SERVER_WRITE_TIMEOUT", "30s"},
	}
	for _, d := range durations {
		raw := value(d.flag, d.env, d.def)
		if *d.dst, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.env, raw, err)
		}
	}

	if !cfg.Store.InMemory() {
		if cfg.Store.DataPath, err = expandDataPath(cfg.Store.DataPath); err != nil {
			return nil, fmt.Errorf("invalid data path: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty")
	}

	u, err := url.Parse(c.Remote.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid remote url: %q", c.Remote.BaseURL)
	}
	if c.Remote.Timeout <= 0 {
		return errors.New("remote timeout must be positive")
	}
	if c.Remote.RPS <= 0 || c.Remote.Burst <= 0 {
		return errors.New("remote rate limit must be positive")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	switch c.List.DuplicatePolicy {
	case DuplicatesReject, DuplicatesAllow:
	default:
		return fmt.Errorf("invalid duplicate policy: %q (must be reject or allow)", c.List.DuplicatePolicy)
	}
	return nil
}

// Addr returns the local API listen address. The API only binds loopback.
func (s ServerConfig) Addr() string {
	return "127.0.0.1:" + s.Port
}

// expandDataPath expands ~ and makes the path absolute, defaulting to
// ~/.grocerylist/data.
func expandDataPath(path string) (string, error) {
	if path == "" {
		path = "~/.grocerylist/data"
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// value returns the first non-empty of flag, environment variable, default.
func value(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}

// boolValue accepts "true", "1" and "yes" (any case) as true.
func boolValue(flagValue, envKey string, defaultValue bool) bool {
	v := value(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func intValue(flagValue, envKey string, defaultValue int) int {
	n, err := strconv.Atoi(value(flagValue, envKey, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func floatValue(flagValue, envKey string, defaultValue float64) float64 {
	f, err := strconv.ParseFloat(value(flagValue, envKey, ""), 64)
	if err != nil {
		return defaultValue
	}
	return f
}

// loadEnvFile sets variables from a KEY=value file without overriding ones
// already present in the environment.
func loadEnvFile(path string) error {
	f, err := os.Open(path) //#nosec G304 -- path comes from the operator
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		val = strings.Trim(strings.TrimSpace(val), `"'`)

		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return fmt.Errorf("failed to set env var %s: %w", key, err)
		}
	}
	return scanner.Err()
}
