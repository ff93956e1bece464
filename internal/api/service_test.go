package api_test

import (
	"context"
	"errors"
	"testing"

	"scorevault/internal/api"
	"scorevault/internal/assets"
	"scorevault/internal/catalog"
	"scorevault/internal/hashid"
	"scorevault/internal/library"
	"scorevault/internal/logging"
	"scorevault/internal/testsupport"
)

func newService(t *testing.T) *api.Service {
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
	coordinator := library.NewCoordinator(store, assetStore, codec, logging.NewNop())
	return api.NewService(cfg, store, coordinator)
}

func TestCreatePieceResponseIncludesGroups(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Orchestra")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	piece, err := svc.CreatePiece(ctx, library.PieceRequest{
		Name:     "Symphony No.5",
		Author:   "Beethoven",
		GroupIDs: []int64{group.ID},
	})
	if err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}
	if piece.ID == 0 || piece.CreatedAt == "" {
		t.Fatalf("expected id and created time in response: %#v", piece)
	}
	if len(piece.Groups) != 1 || piece.Groups[0].Name != "Orchestra" {
		t.Fatalf("expected groups in response: %#v", piece.Groups)
	}
}

func TestUploadResponseOmitsRowID(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Orchestra")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	part, err := svc.CreatePart(ctx, "Strings", group.ID)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	instrument, err := svc.CreateInstrument(ctx, "Violin", part.ID)
	if err != nil {
		t.Fatalf("CreateInstrument failed: %v", err)
	}
	piece, err := svc.CreatePiece(ctx, library.PieceRequest{
		Name:          "Nocturne",
		InstrumentIDs: []int64{instrument.ID},
	})
	if err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}

	files, err := svc.UploadFiles(ctx, []library.Upload{{
		Name:               "Violin1",
		OriginalFilename:   "violin1.pdf",
		Content:            []byte("payload"),
		InstrumentationIDs: []int64{piece.Instrumentations[0].ID},
		TransposeFrom:      instrument.ID,
	}})
	if err != nil {
		t.Fatalf("UploadFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one file, got %d", len(files))
	}
	file := files[0]
	if file.HashID == "" || file.Filename == "" {
		t.Fatalf("expected hash identity in response: %#v", file)
	}
	if file.Transpose == nil || file.Transpose.InstrumentID != instrument.ID {
		t.Fatalf("expected transpose in response: %#v", file.Transpose)
	}

	fetched, err := svc.GetFile(ctx, file.HashID)
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if fetched.Filename != file.Filename {
		t.Fatalf("unexpected file: %#v", fetched)
	}

	_, data, err := svc.DownloadFile(ctx, file.HashID)
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestDeleteEventKeepsPieces(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	first, err := svc.CreatePiece(ctx, library.PieceRequest{Name: "Opening"})
	if err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}
	second, err := svc.CreatePiece(ctx, library.PieceRequest{Name: "Finale"})
	if err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}

	event, err := svc.CreateEvent(ctx, "Gala", []catalog.PieceRef{
		{PieceID: first.ID, Position: 1},
		{PieceID: second.ID, Position: 2},
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if len(event.Program) != 2 {
		t.Fatalf("expected two program entries, got %#v", event.Program)
	}

	if err := svc.DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if _, err := svc.GetEvent(ctx, event.ID); !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected event gone, got %v", err)
	}
	if _, err := svc.GetPiece(ctx, first.ID); err != nil {
		t.Fatalf("expected piece untouched, got %v", err)
	}
	if _, err := svc.GetPiece(ctx, second.ID); err != nil {
		t.Fatalf("expected piece untouched, got %v", err)
	}
}

func TestCreateEventValidatesProgramPieces(t *testing.T) {
	svc := newService(t)

	_, err := svc.CreateEvent(context.Background(), "Gala", []catalog.PieceRef{{PieceID: 42, Position: 1}})
	if !errors.Is(err, library.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInfoReportsCounts(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "Orchestra")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	part, err := svc.CreatePart(ctx, "Strings", group.ID)
	if err != nil {
		t.Fatalf("CreatePart failed: %v", err)
	}
	instrument, err := svc.CreateInstrument(ctx, "Violin", part.ID)
	if err != nil {
		t.Fatalf("CreateInstrument failed: %v", err)
	}
	if _, err := svc.CreatePiece(ctx, library.PieceRequest{Name: "Aria"}); err != nil {
		t.Fatalf("CreatePiece failed: %v", err)
	}

	info, err := svc.Info(ctx)
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Counts["groups"] != 1 || info.Counts["pieces"] != 1 {
		t.Fatalf("unexpected counts: %#v", info.Counts)
	}
	if info.LibraryDir == "" || info.DatabasePath == "" {
		t.Fatalf("expected paths populated: %#v", info)
	}
	if len(info.Groups) != 1 || info.Groups[0].Name != "Orchestra" {
		t.Fatalf("unexpected groups: %#v", info.Groups)
	}
	if len(info.Parts) != 1 || info.Parts[0].GroupID != group.ID {
		t.Fatalf("unexpected parts: %#v", info.Parts)
	}
	if len(info.Instruments) != 1 || info.Instruments[0].Name != instrument.Name {
		t.Fatalf("unexpected instruments: %#v", info.Instruments)
	}
}

func TestParseDate(t *testing.T) {
	if got, err := api.ParseDate(""); err != nil || got != nil {
		t.Fatalf("expected nil for empty date, got %v, %v", got, err)
	}
	got, err := api.ParseDate("2030-06-01")
	if err != nil || got == nil || got.Year() != 2030 {
		t.Fatalf("unexpected parse result: %v, %v", got, err)
	}
	if _, err := api.ParseDate("junk"); !errors.Is(err, library.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateFileIsForbidden(t *testing.T) {
	svc := newService(t)

	err := svc.UpdateFile(context.Background(), "abc123")
	if !errors.Is(err, library.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
