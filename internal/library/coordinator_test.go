package library_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scorevault/internal/assets"
	"scorevault/internal/catalog"
	"scorevault/internal/config"
	"scorevault/internal/hashid"
	"scorevault/internal/library"
	"scorevault/internal/logging"
	"scorevault/internal/testsupport"
)

type harness struct {
	cfg         *config.Config
	store       *catalog.Store
	assets      *assets.Store
	codec       *hashid.Codec
	coordinator *library.Coordinator
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	assetStore, err := assets.Open(cfg)
	if err != nil {
		t.Fatalf("assets.Open: %v", err)
	}
	codec, err := hashid.New(cfg.Identity.Salt, cfg.Identity.MinLength)
	if err != nil {
		t.Fatalf("hashid.New: %v", err)
	}
	return &harness{
		cfg:         cfg,
		store:       store,
		assets:      assetStore,
		codec:       codec,
		coordinator: library.NewCoordinator(store, assetStore, codec, logging.NewNop()),
	}
}

// newScoredPiece creates a piece with one instrumentation and returns the
// piece and its instrumentation.
func (h *harness) newScoredPiece(t *testing.T, name string) (*catalog.Piece, *catalog.Instrumentation) {
	t.Helper()

	ctx := context.Background()
	instrument := testsupport.NewInstrument(t, h.store, "Orchestra "+name, "Strings", "Violin")
	piece, err := h.coordinator.CreatePiece(ctx, library.PieceRequest{
		Name:          name,
		InstrumentIDs: []int64{instrument.ID},
	})
	if err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}
	instrumentations, err := h.store.PieceInstrumentations(ctx, piece.ID)
	if err != nil || len(instrumentations) != 1 {
		t.Fatalf("PieceInstrumentations = %#v, %v", instrumentations, err)
	}
	return piece, instrumentations[0]
}

func TestCreatePieceProvisionsDirectory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	group, err := h.store.CreateGroup(ctx, "Orchestra")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	piece, err := h.coordinator.CreatePiece(ctx, library.PieceRequest{
		Name:     "Symphony No.5",
		Author:   "Beethoven",
		GroupIDs: []int64{group.ID},
	})
	if err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}
	if piece.ID == 0 || piece.CreatedAt.IsZero() {
		t.Fatalf("expected id and created time assigned: %#v", piece)
	}

	info, err := os.Stat(filepath.Join(h.cfg.LibraryDir, "Symphony No.5"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected piece directory on disk: %v", err)
	}
	groups, err := h.store.PieceGroups(ctx, piece.ID)
	if err != nil || len(groups) != 1 || groups[0].ID != group.ID {
		t.Fatalf("unexpected piece groups: %#v, %v", groups, err)
	}
}

func TestCreatePieceDuplicateIsConflict(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if _, err := h.coordinator.CreatePiece(ctx, library.PieceRequest{Name: "Bolero"}); err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}
	_, err := h.coordinator.CreatePiece(ctx, library.PieceRequest{Name: "Bolero"})
	if !errors.Is(err, library.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// Only the first piece row may exist.
	name := "Bolero"
	pieces, err := h.store.FindPieces(ctx, catalog.PieceFilter{Name: &name})
	if err != nil || len(pieces) != 1 {
		t.Fatalf("expected exactly one piece row, got %#v, %v", pieces, err)
	}
}

func TestCreatePieceRequiresName(t *testing.T) {
	h := newHarness(t)

	_, err := h.coordinator.CreatePiece(context.Background(), library.PieceRequest{Name: "   "})
	if !errors.Is(err, library.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUploadFileWritesRowThenBytes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, instrumentation := h.newScoredPiece(t, "Nocturne")

	files, err := h.coordinator.UploadFiles(ctx, []library.Upload{{
		Name:               "Violin1",
		Type:               catalog.FileTypeOriginal,
		OriginalFilename:   "violin1.pdf",
		Content:            []byte("pdf-payload"),
		InstrumentationIDs: []int64{instrumentation.ID},
	}})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one file, got %d", len(files))
	}
	file := files[0]

	want, err := h.codec.Encode(file.ID)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if file.HashID != want {
		t.Fatalf("expected hash %q, got %q", want, file.HashID)
	}
	wantName := "Violin1_0_" + file.HashID + ".pdf"
	if file.Filename != wantName {
		t.Fatalf("expected filename %q, got %q", wantName, file.Filename)
	}
	data, err := os.ReadFile(filepath.Join(h.cfg.LibraryDir, "Nocturne", wantName))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "pdf-payload" {
		t.Fatalf("unexpected stored bytes: %q", data)
	}
}

func TestUploadDuplicateRollsBackRow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, instrumentation := h.newScoredPiece(t, "Requiem")

	upload := library.Upload{
		Name:               "Violin1",
		Type:               catalog.FileTypeOriginal,
		OriginalFilename:   "violin1.pdf",
		Content:            []byte("first"),
		InstrumentationIDs: []int64{instrumentation.ID},
	}
	first, err := h.coordinator.UploadFiles(ctx, []library.Upload{upload})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}

	upload.Content = []byte("second")
	_, err = h.coordinator.UploadFiles(ctx, []library.Upload{upload})
	if !errors.Is(err, library.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// The duplicate's row was rolled back; only the original row remains.
	files, err := h.store.FindFiles(ctx, catalog.FileFilter{})
	if err != nil || len(files) != 1 || files[0].ID != first[0].ID {
		t.Fatalf("expected only the first row, got %#v, %v", files, err)
	}
	// Disk content is the original payload, untouched.
	data, err := os.ReadFile(filepath.Join(h.cfg.LibraryDir, "Requiem", first[0].Filename))
	if err != nil || string(data) != "first" {
		t.Fatalf("expected original bytes intact, got %q, %v", data, err)
	}
}

func TestUploadBatchIsAllOrNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, instrumentation := h.newScoredPiece(t, "Suite")

	// Seed a file whose name the second batch entry will collide with.
	seed := library.Upload{
		Name:               "Clash",
		OriginalFilename:   "clash.pdf",
		Content:            []byte("seed"),
		InstrumentationIDs: []int64{instrumentation.ID},
	}
	if _, err := h.coordinator.UploadFiles(ctx, []library.Upload{seed}); err != nil {
		t.Fatalf("seed upload failed: %v", err)
	}
	seeded, err := h.store.FindFiles(ctx, catalog.FileFilter{})
	if err != nil || len(seeded) != 1 {
		t.Fatalf("expected one seeded row, got %#v, %v", seeded, err)
	}

	batch := []library.Upload{
		{
			Name:               "Fresh",
			OriginalFilename:   "fresh.pdf",
			Content:            []byte("fresh"),
			InstrumentationIDs: []int64{instrumentation.ID},
		},
		seed,
	}
	_, err = h.coordinator.UploadFiles(ctx, batch)
	if !errors.Is(err, library.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	// "Fresh" was committed before the conflict and must be rolled back
	// too: only the seeded row and the seeded bytes survive.
	files, err := h.store.FindFiles(ctx, catalog.FileFilter{})
	if err != nil || len(files) != 1 || files[0].ID != seeded[0].ID {
		t.Fatalf("expected only the seeded row, got %#v, %v", files, err)
	}
	entries, err := os.ReadDir(filepath.Join(h.cfg.LibraryDir, "Suite"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected only the seeded file on disk, got %v, %v", entries, err)
	}
}

func TestRenamePieceMovesDirectory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	piece, instrumentation := h.newScoredPiece(t, "A")
	files, err := h.coordinator.UploadFiles(ctx, []library.Upload{{
		Name:               "Part",
		OriginalFilename:   "part.pdf",
		Content:            []byte("x"),
		InstrumentationIDs: []int64{instrumentation.ID},
	}})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}

	updated, err := h.coordinator.UpdatePiece(ctx, piece.ID, library.PieceRequest{Name: "B"})
	if err != nil {
		t.Fatalf("UpdatePiece failed: %v", err)
	}
	if updated.Name != "B" {
		t.Fatalf("expected renamed piece, got %q", updated.Name)
	}

	if _, err := os.Stat(filepath.Join(h.cfg.LibraryDir, "A")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected old directory gone, got %v", err)
	}
	data, err := os.ReadFile(filepath.Join(h.cfg.LibraryDir, "B", files[0].Filename))
	if err != nil || string(data) != "x" {
		t.Fatalf("expected file under new directory, got %q, %v", data, err)
	}
	// Hash identifiers are derived from row ids and survive the rename.
	fetched, err := h.store.GetFileByHash(ctx, files[0].HashID)
	if err != nil || fetched.Filename != files[0].Filename {
		t.Fatalf("expected unchanged file identity, got %#v, %v", fetched, err)
	}
}

func TestRenamePieceOntoExistingIsConflict(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	piece, err := h.coordinator.CreatePiece(ctx, library.PieceRequest{Name: "A"})
	if err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}
	if _, err := h.coordinator.CreatePiece(ctx, library.PieceRequest{Name: "B"}); err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}

	_, err = h.coordinator.UpdatePiece(ctx, piece.ID, library.PieceRequest{Name: "B"})
	if !errors.Is(err, library.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	// The row keeps its old name when the directory move is refused.
	fetched, err := h.store.GetPiece(ctx, piece.ID)
	if err != nil || fetched.Name != "A" {
		t.Fatalf("expected name unchanged, got %#v, %v", fetched, err)
	}
}

func TestDeletePieceRemovesRowsThenDirectory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	piece, instrumentation := h.newScoredPiece(t, "Elegy")
	files, err := h.coordinator.UploadFiles(ctx, []library.Upload{{
		Name:               "Part",
		OriginalFilename:   "part.pdf",
		Content:            []byte("x"),
		InstrumentationIDs: []int64{instrumentation.ID},
	}})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}

	if err := h.coordinator.DeletePiece(ctx, piece.ID); err != nil {
		t.Fatalf("DeletePiece failed: %v", err)
	}

	if _, err := h.store.GetPiece(ctx, piece.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected piece row gone, got %v", err)
	}
	if _, err := h.store.GetFileByHash(ctx, files[0].HashID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected file row gone, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.cfg.LibraryDir, "Elegy")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected directory gone, got %v", err)
	}
}

func TestDeletePiecesValidatesBeforeDeleting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	piece, _ := h.newScoredPiece(t, "Keeper")

	err := h.coordinator.DeletePieces(ctx, []int64{piece.ID, 999})
	if !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Nothing was deleted because validation runs up front.
	if _, err := h.store.GetPiece(ctx, piece.ID); err != nil {
		t.Fatalf("expected piece untouched, got %v", err)
	}
}

func TestDeleteFileRowThenDisk(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, instrumentation := h.newScoredPiece(t, "March")
	files, err := h.coordinator.UploadFiles(ctx, []library.Upload{{
		Name:               "Part",
		OriginalFilename:   "part.pdf",
		Content:            []byte("x"),
		InstrumentationIDs: []int64{instrumentation.ID},
	}})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}
	file := files[0]

	if err := h.coordinator.DeleteFile(ctx, file.HashID); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
	if _, err := h.store.GetFileByHash(ctx, file.HashID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected row gone, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(h.cfg.LibraryDir, "March", file.Filename)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected disk file gone, got %v", err)
	}

	if err := h.coordinator.DeleteFile(ctx, file.HashID); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestDeleteFileMissingOnDiskStillSucceeds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, instrumentation := h.newScoredPiece(t, "Waltz")
	files, err := h.coordinator.UploadFiles(ctx, []library.Upload{{
		Name:               "Part",
		OriginalFilename:   "part.pdf",
		Content:            []byte("x"),
		InstrumentationIDs: []int64{instrumentation.ID},
	}})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}
	file := files[0]

	// Remove the bytes out of band; the row delete must still succeed.
	if err := os.Remove(filepath.Join(h.cfg.LibraryDir, "Waltz", file.Filename)); err != nil {
		t.Fatalf("remove stored file: %v", err)
	}
	if err := h.coordinator.DeleteFile(ctx, file.HashID); err != nil {
		t.Fatalf("DeleteFile failed: %v", err)
	}
}

func TestReadFileReturnsStoredBytes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, instrumentation := h.newScoredPiece(t, "Aria")
	files, err := h.coordinator.UploadFiles(ctx, []library.Upload{{
		Name:               "Score",
		OriginalFilename:   "score.pdf",
		Content:            []byte("score-bytes"),
		InstrumentationIDs: []int64{instrumentation.ID},
	}})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}

	file, data, err := h.coordinator.ReadFile(ctx, files[0].HashID)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if file.HashID != files[0].HashID || string(data) != "score-bytes" {
		t.Fatalf("unexpected read result: %#v, %q", file, data)
	}

	if _, _, err := h.coordinator.ReadFile(ctx, "missing"); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadTransposeRecordsSourceInstrument(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, instrumentation := h.newScoredPiece(t, "Fanfare")
	source := testsupport.NewInstrument(t, h.store, "Band", "Brass", "Trumpet")

	files, err := h.coordinator.UploadFiles(ctx, []library.Upload{{
		Name:               "Horn in F",
		OriginalFilename:   "horn.pdf",
		Content:            []byte("x"),
		InstrumentationIDs: []int64{instrumentation.ID},
		TransposeFrom:      source.ID,
	}})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}

	transpose, err := h.store.FileTranspose(ctx, files[0].ID)
	if err != nil {
		t.Fatalf("FileTranspose failed: %v", err)
	}
	if transpose == nil || transpose.InstrumentID != source.ID {
		t.Fatalf("unexpected transpose: %#v", transpose)
	}
}
