package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrBadPatchSize = errors.New("default_patch_size must be positive")
	ErrBadTree      = errors.New("default_tree must be \"wallpaper\" or \"frieze\"")
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var problems []string

	if c.Proof.DefaultPatchSize <= 0 {
		problems = append(problems, ErrBadPatchSize.Error())
	}
	switch c.Proof.DefaultTree {
	case "wallpaper", "frieze":
	default:
		problems = append(problems, ErrBadTree.Error())
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		problems = append(problems, "window dimensions must be positive")
	}
	if c.Watch.DebounceMs < 0 {
		problems = append(problems, "watch debounce_ms must not be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown log format %q", c.Logging.Format))
	}
	if strings.ToLower(c.Logging.Output) == "file" && c.Logging.FilePath == "" {
		problems = append(problems, "logging file_path required when output is \"file\"")
	}
	if c.Storage.Enabled && c.Storage.Path == "" {
		problems = append(problems, "storage path required when storage is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
