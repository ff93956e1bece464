package testsupport

import (
	"context"
	"testing"

	"scorevault/internal/catalog"
	"scorevault/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewInstrument creates the group/part/instrument chain for tests and
// returns the instrument.
func NewInstrument(t testing.TB, store *catalog.Store, group, part, instrument string) *catalog.Instrument {
	t.Helper()

	ctx := context.Background()
	g, err := store.CreateGroup(ctx, group)
	if err != nil {
		t.Fatalf("store.CreateGroup: %v", err)
	}
	p, err := store.CreatePart(ctx, part, g.ID)
	if err != nil {
		t.Fatalf("store.CreatePart: %v", err)
	}
	inst, err := store.CreateInstrument(ctx, instrument, p.ID)
	if err != nil {
		t.Fatalf("store.CreateInstrument: %v", err)
	}
	return inst
}

// NewPiece creates a piece with no associations for tests.
func NewPiece(t testing.TB, store *catalog.Store, name string) *catalog.Piece {
	t.Helper()

	piece := &catalog.Piece{Name: name}
	if err := store.CreatePiece(context.Background(), piece, nil, nil); err != nil {
		t.Fatalf("store.CreatePiece: %v", err)
	}
	return piece
}
