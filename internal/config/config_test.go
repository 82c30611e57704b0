package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, Version, cfg.Version)
	assert.Equal(t, 96, cfg.Proof.DefaultPatchSize)
	assert.Equal(t, "wallpaper", cfg.Proof.DefaultTree)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 500, cfg.Watch.DebounceMs)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Proof, cfg.Proof)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
version = 1

[proof]
default_patch_size = 128
default_tree = "frieze"

[watch]
enabled = false
debounce_ms = 250
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Proof.DefaultPatchSize)
	assert.Equal(t, "frieze", cfg.Proof.DefaultTree)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
	// Unspecified sections keep their defaults.
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
proof:
  default_patch_size: 64
logging:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Proof.DefaultPatchSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"proof":{"default_tree":"frieze"}}`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "frieze", cfg.Proof.DefaultTree)
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = [[["), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Proof.DefaultTree = "frieze"
	cfg.Proof.DefaultPatchSize = 144
	cfg.Logging.Level = "debug"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Proof, loaded.Proof)
	assert.Equal(t, cfg.Logging, loaded.Logging)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TESSELLA_TREE", "frieze")
	t.Setenv("TESSELLA_PATCH_SIZE", "200")
	t.Setenv("TESSELLA_LOG_PATH", "/tmp/tessella.log")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "frieze", cfg.Proof.DefaultTree)
	assert.Equal(t, 200, cfg.Proof.DefaultPatchSize)
	assert.Equal(t, "file", cfg.Logging.Output)
	assert.Equal(t, "/tmp/tessella.log", cfg.Logging.FilePath)
}

func TestEnvOverrideBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[proof]\ndefault_tree = \"wallpaper\"\n"), 0o600))
	t.Setenv("TESSELLA_TREE", "frieze")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "frieze", cfg.Proof.DefaultTree)
}

func TestDataDirOverride(t *testing.T) {
	t.Setenv("TESSELLA_DATA_DIR", "/data/tess")
	assert.Equal(t, "/data/tess", DataDir())
	assert.Equal(t, filepath.Join("/data/tess", "config.toml"), ConfigPath())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		substr string
	}{
		{"bad patch size", func(c *Config) { c.Proof.DefaultPatchSize = 0 }, "default_patch_size"},
		{"bad tree", func(c *Config) { c.Proof.DefaultTree = "penrose" }, "default_tree"},
		{"bad window", func(c *Config) { c.Window.Width = 0 }, "window"},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }, "debounce"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
		{"file output without path", func(c *Config) { c.Logging.Output = "file" }, "file_path"},
		{"storage without path", func(c *Config) { c.Storage.Path = "" }, "storage path"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.substr)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Proof.DefaultPatchSize = -1
	cfg.Proof.DefaultTree = "penrose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_patch_size")
	assert.Contains(t, err.Error(), "default_tree")
}
