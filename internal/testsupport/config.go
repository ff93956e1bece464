package testsupport

import (
	"path/filepath"
	"testing"

	"scorevault/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.LibraryDir = filepath.Join(base, "library")
	cfg.DatabasePath = filepath.Join(base, "scorevault.db")
	cfg.LogDir = filepath.Join(base, "logs")
	cfg.SocketPath = filepath.Join(base, "scorevaultd.sock")
	cfg.Identity.Salt = "test-salt"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithSalt overrides the identity salt on the test config.
func WithSalt(salt string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Identity.Salt = salt
	}
}

// WithLibraryDir overrides the asset root on the test config.
func WithLibraryDir(dir string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.LibraryDir = dir
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.DatabasePath)
}
