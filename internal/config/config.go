// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Display configuration
	Display DisplayConfig `mapstructure:"display"`

	// Input configuration
	Input InputConfig `mapstructure:"input"`

	// Clipboard configuration
	Clipboard ClipboardConfig `mapstructure:"clipboard"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// DisplayConfig contains display-surface settings
type DisplayConfig struct {
	// RefreshIntervalMs is the cadence at which the guest refresh callback is
	// driven when the guest does not provide its own. The pointer-device mode
	// is resynchronized at this cadence as well.
	RefreshIntervalMs int `mapstructure:"refresh_interval_ms"`
}

// InputConfig contains input-routing settings
type InputConfig struct {
	// SwapAltMeta swaps the guest mapping of the Alt and Meta modifier keys
	// without touching any other key.
	SwapAltMeta bool `mapstructure:"swap_alt_meta"`

	// Grab toggle hotkey, e.g. "ctrl+alt" + "g"
	GrabHotkeyModifier string `mapstructure:"grab_hotkey_modifier"`
	GrabHotkeyKey      string `mapstructure:"grab_hotkey_key"`
}

// ClipboardConfig contains clipboard-bridge settings
type ClipboardConfig struct {
	// RequestTimeoutMs bounds how long a blocking clipboard request waits for
	// the other side to supply content before reporting "no data".
	RequestTimeoutMs int `mapstructure:"request_timeout_ms"`

	// PollIntervalMs is the host pasteboard change-detection interval.
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

// RequestTimeout returns the clipboard request timeout as a duration.
func (c ClipboardConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// PollInterval returns the host pasteboard poll interval as a duration.
func (c ClipboardConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// RefreshInterval returns the guest refresh cadence as a duration.
func (c DisplayConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMs) * time.Millisecond
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Display: DisplayConfig{
			RefreshIntervalMs: 33,
		},
		Input: InputConfig{
			SwapAltMeta:        false,
			GrabHotkeyModifier: "ctrl+alt",
			GrabHotkeyKey:      "g",
		},
		Clipboard: ClipboardConfig{
			RequestTimeoutMs: 3000,
			PollIntervalMs:   500,
		},
		Logging: LoggingConfig{
			LogLevel: "",
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("vmview")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath("/etc/vmview")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vmview"))
		}
		viper.AddConfigPath(".")
	}

	// Set defaults - individual fields so file values merge properly
	viper.SetDefault("display.refresh_interval_ms", DefaultConfig.Display.RefreshIntervalMs)

	viper.SetDefault("input.swap_alt_meta", DefaultConfig.Input.SwapAltMeta)
	viper.SetDefault("input.grab_hotkey_modifier", DefaultConfig.Input.GrabHotkeyModifier)
	viper.SetDefault("input.grab_hotkey_key", DefaultConfig.Input.GrabHotkeyKey)

	viper.SetDefault("clipboard.request_timeout_ms", DefaultConfig.Clipboard.RequestTimeoutMs)
	viper.SetDefault("clipboard.poll_interval_ms", DefaultConfig.Clipboard.PollIntervalMs)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return nil
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "/etc/vmview/vmview.toml"
	}

	return filepath.Join(home, ".config", "vmview", "vmview.toml")
}
