package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

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

func run() error {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	signalCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog store: %w", err)
	}
	defer store.Close()

	assetStore, err := assets.Open(cfg)
	if err != nil {
		return fmt.Errorf("open asset store: %w", err)
	}

	codec, err := hashid.New(cfg.Identity.Salt, cfg.Identity.MinLength)
	if err != nil {
		return fmt.Errorf("init identity codec: %w", err)
	}

	coordinator := library.NewCoordinator(store, assetStore, codec, logger)
	svc := api.NewService(cfg, store, coordinator)

	d, err := daemon.New(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		return err
	}
	defer d.Stop()

	server, err := ipc.NewServer(signalCtx, cfg.SocketPath, svc, d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer server.Close()
	server.Serve()

	logger.Info("scorevault daemon started",
		logging.Int("pid", os.Getpid()),
		logging.String("socket", cfg.SocketPath),
		logging.String("library_dir", cfg.LibraryDir),
	)

	select {
	case <-signalCtx.Done():
	case <-d.ShutdownRequested():
	}
	logger.Info("scorevault daemon shutting down")
	return nil
}
