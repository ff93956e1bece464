package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"scorevault/internal/catalog"
	"scorevault/internal/config"
	"scorevault/internal/logging"
)

// Daemon enforces single-instance execution and reports runtime status.
type Daemon struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger

	lockPath string
	lock     *flock.Flock

	running  atomic.Bool
	shutdown chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	DatabasePath string
	LibraryDir   string
	SocketPath   string
	LockFilePath string
	Counts       map[string]int64
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.LogDir, "scorevaultd.lock")
	return &Daemon{
		cfg:      cfg,
		store:    store,
		logger:   logger.With(logging.String(logging.FieldComponent, "daemon")),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		shutdown: make(chan struct{}),
	}, nil
}

// Start acquires the daemon lock.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another scorevault daemon instance is already running")
	}
	d.running.Store(true)
	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.running.Store(false)
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock",
			logging.String("lock", d.lockPath), logging.Error(err))
	}
	d.logger.Info("daemon stopped")
}

// RequestShutdown signals the process to exit. Safe to call once.
func (d *Daemon) RequestShutdown() {
	select {
	case <-d.shutdown:
	default:
		close(d.shutdown)
	}
}

// ShutdownRequested returns a channel closed when shutdown was requested.
func (d *Daemon) ShutdownRequested() <-chan struct{} {
	return d.shutdown
}

// Running reports whether the daemon holds its lock.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the flock file path.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Status collects runtime information, including catalog row counts.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.cfg.DatabasePath,
		LibraryDir:   d.cfg.LibraryDir,
		SocketPath:   d.cfg.SocketPath,
		LockFilePath: d.lockPath,
	}
	counts, err := d.store.Stats(ctx)
	if err != nil {
		d.logger.Warn("failed to collect catalog stats", logging.Error(err))
	} else {
		status.Counts = counts
	}
	return status
}
