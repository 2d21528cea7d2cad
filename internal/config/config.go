// Package config handles configuration loading for echochat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/diogo/echochat/internal/models"
)

// MarkdownConfig configures markdown rendering of assistant replies
type MarkdownConfig struct {
	Style            string `json:"style"`             // theme name, glamour style or path to JSON style; empty follows tui_theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Keep line breaks as written
}

// LogConfig configures the file logger
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	File   string `json:"file"`   // empty means <config dir>/echochat.log
	Format string `json:"format"` // json or console
}

// Config represents the user configuration
type Config struct {
	// Endpoint is the backend base address; requests go to Endpoint + /chat.
	Endpoint string `json:"endpoint"`
	// TimeoutSeconds bounds a single backend request.
	TimeoutSeconds  int            `json:"timeout_seconds"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	Verbose         bool           `json:"verbose"`
	Log             LogConfig      `json:"log"`
	Markdown        MarkdownConfig `json:"markdown"`
}

// envOverrides holds values read from the environment. Zero values mean unset.
type envOverrides struct {
	Endpoint       string `env:"ECHOCHAT_ENDPOINT"`
	TimeoutSeconds int    `env:"ECHOCHAT_TIMEOUT_SECONDS"`
	Theme          string `env:"ECHOCHAT_THEME"`
	LogLevel       string `env:"ECHOCHAT_LOG_LEVEL"`
	LogFile        string `env:"ECHOCHAT_LOG_FILE"`
	Verbose        bool   `env:"ECHOCHAT_VERBOSE"`
	GlamourStyle   string `env:"GLAMOUR_STYLE"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Endpoint:        models.DefaultEndpoint,
		TimeoutSeconds:  models.DefaultTimeoutSeconds,
		TUITheme:        "tokyonight",
		CopyToClipboard: false,
		Verbose:         false,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Markdown: DefaultMarkdownConfig(),
	}
}

// GetConfigDir returns the configuration directory path.
// ECHOCHAT_HOME replaces the default ~/.echochat location.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("ECHOCHAT_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".echochat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path for cfg
func GetLogPath(cfg Config) (string, error) {
	if cfg.Log.File != "" {
		return cfg.Log.File, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "echochat.log"), nil
}

// LoadConfig loads the configuration file from disk, without environment overrides
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load returns the effective configuration: file, then .env and process
// environment on top. The result is meant to be loaded once at startup.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return cfg, err
	}

	// A missing .env is the common case
	_ = godotenv.Load()

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays ECHOCHAT_* environment variables onto cfg
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if o.Endpoint != "" {
		cfg.Endpoint = o.Endpoint
	}
	if o.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = o.TimeoutSeconds
	}
	if o.Theme != "" {
		cfg.TUITheme = o.Theme
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.Verbose {
		cfg.Verbose = true
	}
	if o.GlamourStyle != "" {
		cfg.Markdown.Style = o.GlamourStyle
	}
	return nil
}

// Validate checks that cfg can be used to reach the backend
func Validate(cfg Config) error {
	if _, err := ChatURL(cfg.Endpoint); err != nil {
		return err
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative, got %d", cfg.TimeoutSeconds)
	}
	return nil
}

// ChatURL joins endpoint and the chat path, checking the endpoint is an http(s) address
func ChatURL(endpoint string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return strings.TrimRight(u.String(), "/") + models.ChatPath, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Keys returns the keys accepted by SetValue
func Keys() []string {
	return []string{
		"endpoint",
		"timeout_seconds",
		"tui_theme",
		"copy_to_clipboard",
		"verbose",
		"log.level",
		"log.file",
		"log.format",
		"markdown.style",
	}
}

// SetValue updates a single key of cfg from its string form
func SetValue(cfg *Config, key, value string) error {
	switch key {
	case "endpoint":
		if _, err := ChatURL(value); err != nil {
			return err
		}
		cfg.Endpoint = value
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("timeout_seconds must be a non-negative integer, got %q", value)
		}
		cfg.TimeoutSeconds = n
	case "tui_theme":
		cfg.TUITheme = value
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("copy_to_clipboard must be true or false, got %q", value)
		}
		cfg.CopyToClipboard = b
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("verbose must be true or false, got %q", value)
		}
		cfg.Verbose = b
	case "log.level":
		switch value {
		case "debug", "info", "warn", "error":
			cfg.Log.Level = value
		default:
			return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", value)
		}
	case "log.file":
		cfg.Log.File = value
	case "log.format":
		if value != "json" && value != "console" {
			return fmt.Errorf("log.format must be json or console, got %q", value)
		}
		cfg.Log.Format = value
	case "markdown.style":
		cfg.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
