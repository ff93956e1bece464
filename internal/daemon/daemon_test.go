package daemon_test

import (
	"context"
	"testing"

	"scorevault/internal/daemon"
	"scorevault/internal/logging"
	"scorevault/internal/testsupport"
)

func TestStartIsExclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	first, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Stop()

	second, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be refused")
	}
}

func TestStatusReportsCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.NewPiece(t, store, "Aria")

	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Stop()

	status := d.Status(context.Background())
	if !status.Running || status.PID == 0 {
		t.Fatalf("unexpected status: %#v", status)
	}
	if status.Counts["pieces"] != 1 {
		t.Fatalf("unexpected counts: %#v", status.Counts)
	}
}

func TestShutdownSignal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	d, err := daemon.New(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	select {
	case <-d.ShutdownRequested():
		t.Fatal("shutdown should not be requested yet")
	default:
	}
	d.RequestShutdown()
	d.RequestShutdown() // idempotent
	select {
	case <-d.ShutdownRequested():
	default:
		t.Fatal("expected shutdown channel closed")
	}
}
