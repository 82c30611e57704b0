// Package config handles configuration loading, validation, and defaults for
// tessella.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete application configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version" json:"version" yaml:"version"`

	// Window configures the application window.
	Window WindowConfig `toml:"window" json:"window" yaml:"window"`

	// Proof configures the geometric proof defaults.
	Proof ProofConfig `toml:"proof" json:"proof" yaml:"proof"`

	// Storage configures the classification results store.
	Storage StorageConfig `toml:"storage" json:"storage" yaml:"storage"`

	// Watch configures reloading of the pattern image on external edits.
	Watch WatchConfig `toml:"watch" json:"watch" yaml:"watch"`

	// Logging configures structured logging.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// WindowConfig holds window settings.
type WindowConfig struct {
	// Width is the initial window width in dp.
	Width int `toml:"width" json:"width" yaml:"width"`

	// Height is the initial window height in dp.
	Height int `toml:"height" json:"height" yaml:"height"`
}

// ProofConfig holds proof engine defaults.
type ProofConfig struct {
	// DefaultPatchSize is the initial comparison-patch side in pixels.
	DefaultPatchSize int `toml:"default_patch_size" json:"default_patch_size" yaml:"default_patch_size"`

	// DefaultTree selects the built-in decision tree: "wallpaper" or
	// "frieze".
	DefaultTree string `toml:"default_tree" json:"default_tree" yaml:"default_tree"`
}

// StorageConfig holds results-store settings.
type StorageConfig struct {
	// Enabled determines whether completed classifications are recorded.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// Path is the path to the SQLite database file.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// WatchConfig holds image file watching settings.
type WatchConfig struct {
	// Enabled determines whether the loaded image file is watched for
	// external edits.
	Enabled bool `toml:"enabled" json:"enabled" yaml:"enabled"`

	// DebounceMs is how long the file must be stable before reloading.
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error".
	Level string `toml:"level" json:"level" yaml:"level"`

	// Format is the log format: "text" or "json".
	Format string `toml:"format" json:"format" yaml:"format"`

	// Output is the log output: "stdout", "stderr", or "file".
	Output string `toml:"output" json:"output" yaml:"output"`

	// FilePath is the path to the log file (when Output is "file").
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dir := DataDir()

	return &Config{
		Version: Version,
		Window: WindowConfig{
			Width:  1280,
			Height: 860,
		},
		Proof: ProofConfig{
			DefaultPatchSize: 96,
			DefaultTree:      "wallpaper",
		},
		Storage: StorageConfig{
			Enabled: true,
			Path:    filepath.Join(dir, "classifications.db"),
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// ConfigPath returns the default configuration file path.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// DataDir returns the base tessella data directory, honoring the
// TESSELLA_DATA_DIR environment override.
func DataDir() string {
	if envDir := os.Getenv("TESSELLA_DATA_DIR"); envDir != "" {
		return envDir
	}
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "tessella")
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		return filepath.Join(appData, "tessella")
	default:
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			return filepath.Join(dataHome, "tessella")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "tessella")
	}
}

// ApplyEnvOverrides applies TESSELLA_* environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TESSELLA_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("TESSELLA_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TESSELLA_LOG_PATH"); v != "" {
		c.Logging.FilePath = v
		c.Logging.Output = "file"
	}
	if v := os.Getenv("TESSELLA_TREE"); v != "" {
		c.Proof.DefaultTree = v
	}
	if v := os.Getenv("TESSELLA_PATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Proof.DefaultPatchSize = n
		}
	}
}
