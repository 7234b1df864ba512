// Package config loads and saves KLang's runtime configuration: the
// bitwise-shift default mode, heap and stack sizing, allocator bin
// tuning, and trace sinks. Adapted from the teacher's config.go, keeping
// its TOML-backed struct, platform-path resolution, and load/save shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/klang-rt/klang/shift"
)

// Config is KLang's TOML-backed runtime configuration.
type Config struct {
	// Bitwise settings
	Bitwise struct {
		DefaultMode string `toml:"default_mode"` // "auto", "native", or "arithmetic"
	} `toml:"bitwise"`

	// Heap settings
	Heap struct {
		InitialSize int `toml:"initial_size"`
		MaxSize     int `toml:"max_size"`
	} `toml:"heap"`

	// Stack settings
	Stack struct {
		Size         int `toml:"size"`
		DefaultAlign int `toml:"default_align"`
	} `toml:"stack"`

	// Malloc settings
	Malloc struct {
		SmallBinLimit  int `toml:"small_bin_limit"`
		SplitThreshold int `toml:"split_threshold"`
	} `toml:"malloc"`

	// Trace settings
	Trace struct {
		EnableFloatTrace bool   `toml:"enable_float_trace"`
		EnableAllocTrace bool   `toml:"enable_alloc_trace"`
		OutputFile       string `toml:"output_file"`
	} `toml:"trace"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Bitwise defaults
	cfg.Bitwise.DefaultMode = "auto"

	// Heap defaults
	cfg.Heap.InitialSize = 4096
	cfg.Heap.MaxSize = 0 // 0 means unbounded

	// Stack defaults
	cfg.Stack.Size = 65536 // 64KB
	cfg.Stack.DefaultAlign = 8

	// Malloc defaults
	cfg.Malloc.SmallBinLimit = 1024
	cfg.Malloc.SplitThreshold = 20

	// Trace defaults
	cfg.Trace.EnableFloatTrace = false
	cfg.Trace.EnableAllocTrace = false
	cfg.Trace.OutputFile = "trace.log"

	return cfg
}

// InvalidModeError is returned when Bitwise.DefaultMode names something
// other than "auto", "native", or "arithmetic".
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("config: invalid bitwise default_mode %q (want auto, native, or arithmetic)", e.Mode)
}

// ShiftMode resolves Bitwise.DefaultMode into a shift.Mode.
func (c *Config) ShiftMode() (shift.Mode, error) {
	switch c.Bitwise.DefaultMode {
	case "auto", "":
		return shift.Auto, nil
	case "native":
		return shift.Native, nil
	case "arithmetic":
		return shift.Arithmetic, nil
	default:
		return 0, &InvalidModeError{Mode: c.Bitwise.DefaultMode}
	}
}

// NewShiftConfig builds a shift.Config whose default mode is this
// Config's Bitwise.DefaultMode.
func (c *Config) NewShiftConfig() (*shift.Config, error) {
	mode, err := c.ShiftMode()
	if err != nil {
		return nil, err
	}
	return shift.NewConfig(mode), nil
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\klang\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "klang")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/klang/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "klang")

	default:
		// Unknown platform: use current directory
		return "config.toml"
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0750); err != nil {
		// If we can't create the directory, fall back to current directory
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path.
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\klang\logs
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "klang", "logs")

	case "darwin", "linux":
		// macOS/Linux: ~/.local/share/klang/logs
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "klang", "logs")

	default:
		return "logs"
	}

	// Ensure directory exists
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read and parse config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	// Encode to TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
