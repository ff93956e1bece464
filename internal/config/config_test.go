package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, found, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Fatal("expected found=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.LibraryDir == "" || cfg.DatabasePath == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Identity.MinLength != 8 {
		t.Fatalf("default min_length = %d, want 8", cfg.Identity.MinLength)
	}
}

func TestLoadParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		`library_dir = "` + filepath.Join(dir, "library") + `"`,
		`database_path = "` + filepath.Join(dir, "catalog.db") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		``,
		`[identity]`,
		`salt = "unit-test-salt"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, found, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if cfg.Identity.Salt != "unit-test-salt" {
		t.Fatalf("salt = %q", cfg.Identity.Salt)
	}
	if cfg.SocketPath != filepath.Join(dir, "logs", "scorevaultd.sock") {
		t.Fatalf("socket fallback = %q", cfg.SocketPath)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		`library_dir = "` + filepath.Join(dir, "library") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		``,
		`[logging]`,
		`format = "xml"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidateRequiresSalt(t *testing.T) {
	cfg := Default()
	cfg.applyFallbacks()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty salt")
	}
	if !strings.Contains(err.Error(), "identity.salt") {
		t.Fatalf("error does not mention salt: %v", err)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error when overwriting existing config")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		LibraryDir:   filepath.Join(dir, "library"),
		DatabasePath: filepath.Join(dir, "db", "catalog.db"),
		LogDir:       filepath.Join(dir, "logs"),
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.LibraryDir, cfg.LogDir, filepath.Dir(cfg.DatabasePath)} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s not created: %v", d, err)
		}
	}
}

func TestLoadDerivesPathsFromLogDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		`library_dir = "` + filepath.Join(dir, "library") + `"`,
		`log_dir = "` + filepath.Join(dir, "data", "logs") + `"`,
		``,
		`[identity]`,
		`salt = "unit-test-salt"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(dir, "data", "catalog.db"); cfg.DatabasePath != want {
		t.Fatalf("database fallback = %q, want %q", cfg.DatabasePath, want)
	}
	if want := filepath.Join(dir, "data", "logs", "scorevaultd.sock"); cfg.SocketPath != want {
		t.Fatalf("socket fallback = %q, want %q", cfg.SocketPath, want)
	}
}
