package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scorevault/internal/api"
	"scorevault/internal/assets"
	"scorevault/internal/catalog"
	"scorevault/internal/config"
	"scorevault/internal/daemon"
	"scorevault/internal/hashid"
	"scorevault/internal/ipc"
	"scorevault/internal/library"
	"scorevault/internal/logging"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *catalog.Store
	socketPath string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LibraryDir = filepath.Join(base, "library")
	cfgVal.DatabasePath = filepath.Join(base, "catalog.db")
	cfgVal.LogDir = filepath.Join(base, "logs")
	cfgVal.SocketPath = filepath.Join(base, "sv.sock")
	cfgVal.Identity.Salt = "cli-test-salt"
	cfg := &cfgVal

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	assetStore, err := assets.Open(cfg)
	if err != nil {
		t.Fatalf("assets.Open: %v", err)
	}
	codec, err := hashid.New(cfg.Identity.Salt, cfg.Identity.MinLength)
	if err != nil {
		t.Fatalf("hashid.New: %v", err)
	}
	coordinator := library.NewCoordinator(store, assetStore, codec, logging.NewNop())
	svc := api.NewService(cfg, store, coordinator)

	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)

	srv, err := ipc.NewServer(context.Background(), cfg.SocketPath, svc, d, logging.NewNop())
	if err != nil {
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	return &cliTestEnv{
		cfg:        cfg,
		store:      store,
		socketPath: cfg.SocketPath,
		configPath: configPath,
	}
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"library_dir = %q\ndatabase_path = %q\nlog_dir = %q\nsocket_path = %q\n\n[identity]\nsalt = %q\n",
		cfg.LibraryDir,
		cfg.DatabasePath,
		cfg.LogDir,
		cfg.SocketPath,
		cfg.Identity.Salt,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got %q", want, output)
	}
}

func TestCLICatalogCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"group", "create", "Orchestra"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("group create: %v", err)
	}
	requireContains(t, out, "Created group 1")

	out, _, err = runCLI(t, []string{"part", "create", "1", "Strings"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("part create: %v", err)
	}
	requireContains(t, out, "Created part 1")

	out, _, err = runCLI(t, []string{"instrument", "create", "1", "Violin"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("instrument create: %v", err)
	}
	requireContains(t, out, "Created instrument 1")

	out, _, err = runCLI(t, []string{
		"piece", "create", "Symphony No.5",
		"--author", "Beethoven",
		"--group", "1",
		"--instrument", "1",
	}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("piece create: %v", err)
	}
	requireContains(t, out, "Created piece 1")

	if _, err := os.Stat(filepath.Join(env.cfg.LibraryDir, "Symphony No.5")); err != nil {
		t.Fatalf("expected piece directory: %v", err)
	}

	out, _, err = runCLI(t, []string{"piece", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("piece list: %v", err)
	}
	requireContains(t, out, "Symphony No.5")
	requireContains(t, out, "Beethoven")

	out, _, err = runCLI(t, []string{"piece", "show", "1"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("piece show: %v", err)
	}
	requireContains(t, out, "Groups:   Orchestra (1)")

	out, _, err = runCLI(t, []string{"info"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, out, "Orchestra")
	requireContains(t, out, "Strings")
	requireContains(t, out, "Violin")
}

func TestCLIFileUploadAndDownload(t *testing.T) {
	env := setupCLITestEnv(t)

	seedCLIPiece(t, env)

	source := filepath.Join(t.TempDir(), "violin1.pdf")
	if err := os.WriteFile(source, []byte("score bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	out, _, err := runCLI(t, []string{
		"file", "upload", source, "--instrumentation", "1",
	}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("file upload: %v", err)
	}
	requireContains(t, out, "Uploaded 1 file(s)")
	requireContains(t, out, "violin1")

	listOut, _, err := runCLI(t, []string{"file", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("file list: %v", err)
	}
	hash := firstHashFromListing(t, listOut)

	target := filepath.Join(t.TempDir(), "downloaded.pdf")
	out, _, err = runCLI(t, []string{"file", "download", hash, "--output", target}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("file download: %v", err)
	}
	requireContains(t, out, "Wrote "+target)

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(content) != "score bytes" {
		t.Fatalf("unexpected downloaded content %q", content)
	}
}

func TestCLIDaemonStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"daemon", "status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("daemon status: %v", err)
	}
	requireContains(t, out, "Daemon:   running")
	requireContains(t, out, env.cfg.DatabasePath)
}

func TestCLIConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, stdout.String(), "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
}

// seedCLIPiece creates group 1, part 1, instrument 1, and piece 1 scored
// for the instrument, so file commands have instrumentation 1 to link to.
func seedCLIPiece(t *testing.T, env *cliTestEnv) {
	t.Helper()
	steps := [][]string{
		{"group", "create", "Orchestra"},
		{"part", "create", "1", "Strings"},
		{"instrument", "create", "1", "Violin"},
		{"piece", "create", "Bolero", "--instrument", "1"},
	}
	for _, step := range steps {
		if _, _, err := runCLI(t, step, env.socketPath, env.configPath); err != nil {
			t.Fatalf("seed step %v: %v", step, err)
		}
	}
}

func firstHashFromListing(t *testing.T, listing string) string {
	t.Helper()
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		// go-pretty rows look like: │ <hash> │ <name> │ ... with the
		// header cell uppercased by the table renderer.
		if len(fields) > 2 && fields[0] == "│" && !strings.EqualFold(fields[1], "hash") {
			return fields[1]
		}
	}
	t.Fatalf("no file rows in listing:\n%s", listing)
	return ""
}
