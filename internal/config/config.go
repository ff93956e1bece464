package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Identity contains settings for the public file identifier codec.
type Identity struct {
	// Salt seeds the hashids encoding of file primary keys. Changing it
	// orphans every hash_id already stored in the catalog.
	Salt      string `toml:"salt"`
	MinLength int    `toml:"min_length"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config is the root configuration for the scorevault daemon and CLI.
type Config struct {
	LibraryDir   string `toml:"library_dir"`
	DatabasePath string `toml:"database_path"`
	LogDir       string `toml:"log_dir"`
	SocketPath   string `toml:"socket_path"`

	Identity Identity `toml:"identity"`
	Logging  Logging  `toml:"logging"`
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "scorevault", "config.toml")
}

// Load reads configuration from path, or from the default location when path
// is empty. A missing file yields defaults. It returns the config, the path
// that was consulted, and whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg.applyFallbacks()
		return &cfg, resolved, false, nil
	case err != nil:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	cfg.applyFallbacks()
	if err := cfg.Validate(); err != nil {
		return nil, resolved, true, err
	}
	return &cfg, resolved, true, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.LibraryDir, c.LogDir, filepath.Dir(c.DatabasePath)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// applyFallbacks fills derived values left empty by the file or defaults.
func (c *Config) applyFallbacks() {
	if strings.TrimSpace(c.DatabasePath) == "" && c.LogDir != "" {
		c.DatabasePath = filepath.Join(filepath.Dir(c.LogDir), "catalog.db")
	}
	if strings.TrimSpace(c.SocketPath) == "" && c.LogDir != "" {
		c.SocketPath = filepath.Join(c.LogDir, "scorevaultd.sock")
	}
	if c.Identity.MinLength <= 0 {
		c.Identity.MinLength = 8
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = "console"
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
}
