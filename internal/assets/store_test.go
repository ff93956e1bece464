package assets_test

import (
	"os"
	"path/filepath"
	"testing"

	"scorevault/internal/assets"
	"scorevault/internal/catalog"
	"scorevault/internal/testsupport"
)

func newStore(t *testing.T) *assets.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := assets.Open(cfg)
	if err != nil {
		t.Fatalf("assets.Open: %v", err)
	}
	return store
}

func TestPieceExistsToleratesMissingRoot(t *testing.T) {
	store := newStore(t)

	// The library root is not created until the first piece is.
	exists, err := store.PieceExists("Symphony No.5")
	if err != nil {
		t.Fatalf("PieceExists failed: %v", err)
	}
	if exists {
		t.Fatal("expected no piece under missing root")
	}
}

func TestCreatePieceDirDetectsCollision(t *testing.T) {
	store := newStore(t)

	created, err := store.CreatePieceDir("Symphony No.5")
	if err != nil || !created {
		t.Fatalf("CreatePieceDir = %v, %v", created, err)
	}
	info, err := os.Stat(filepath.Join(store.Root(), "Symphony No.5"))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected piece directory on disk: %v", err)
	}

	created, err = store.CreatePieceDir("Symphony No.5")
	if err != nil {
		t.Fatalf("repeat CreatePieceDir failed: %v", err)
	}
	if created {
		t.Fatal("expected collision to report false")
	}
}

func TestSaveAndReadFile(t *testing.T) {
	store := newStore(t)

	if _, err := store.CreatePieceDir("Bolero"); err != nil {
		t.Fatalf("CreatePieceDir failed: %v", err)
	}
	saved, err := store.SaveFile("Bolero", "score_0_abc123.pdf", []byte("pdf-bytes"))
	if err != nil || !saved {
		t.Fatalf("SaveFile = %v, %v", saved, err)
	}

	// A second save with the same name must refuse, not overwrite.
	saved, err = store.SaveFile("Bolero", "score_0_abc123.pdf", []byte("other"))
	if err != nil {
		t.Fatalf("repeat SaveFile failed: %v", err)
	}
	if saved {
		t.Fatal("expected duplicate filename to report false")
	}

	data, err := store.ReadFile("Bolero", "score_0_abc123.pdf")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestSaveFileRequiresPieceDir(t *testing.T) {
	store := newStore(t)

	saved, err := store.SaveFile("Missing", "a.pdf", []byte("x"))
	if err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if saved {
		t.Fatal("expected save into missing piece dir to report false")
	}
}

func TestRenamePieceDirMovesContent(t *testing.T) {
	store := newStore(t)

	if _, err := store.CreatePieceDir("Old Name"); err != nil {
		t.Fatalf("CreatePieceDir failed: %v", err)
	}
	if _, err := store.SaveFile("Old Name", "part_0_h1.pdf", []byte("x")); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	renamed, err := store.RenamePieceDir("Old Name", "New Name")
	if err != nil || !renamed {
		t.Fatalf("RenamePieceDir = %v, %v", renamed, err)
	}
	exists, err := store.FileExists("New Name", "part_0_h1.pdf")
	if err != nil || !exists {
		t.Fatalf("expected file under new name: %v", err)
	}
	exists, err = store.PieceExists("Old Name")
	if err != nil || exists {
		t.Fatalf("expected old directory gone: %v", err)
	}
}

func TestRenamePieceDirRefusesTakenTarget(t *testing.T) {
	store := newStore(t)

	if _, err := store.CreatePieceDir("A"); err != nil {
		t.Fatalf("CreatePieceDir failed: %v", err)
	}
	if _, err := store.CreatePieceDir("B"); err != nil {
		t.Fatalf("CreatePieceDir failed: %v", err)
	}
	renamed, err := store.RenamePieceDir("A", "B")
	if err != nil {
		t.Fatalf("RenamePieceDir failed: %v", err)
	}
	if renamed {
		t.Fatal("expected rename onto existing target to report false")
	}
}

func TestDeletePieceDirAndFile(t *testing.T) {
	store := newStore(t)

	if _, err := store.CreatePieceDir("Requiem"); err != nil {
		t.Fatalf("CreatePieceDir failed: %v", err)
	}
	if _, err := store.SaveFile("Requiem", "part_0_h1.pdf", []byte("x")); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	deleted, err := store.DeleteFile("Requiem", "part_0_h1.pdf")
	if err != nil || !deleted {
		t.Fatalf("DeleteFile = %v, %v", deleted, err)
	}
	deleted, err = store.DeleteFile("Requiem", "part_0_h1.pdf")
	if err != nil {
		t.Fatalf("repeat DeleteFile failed: %v", err)
	}
	if deleted {
		t.Fatal("expected missing file to report false")
	}

	deleted, err = store.DeletePieceDir("Requiem")
	if err != nil || !deleted {
		t.Fatalf("DeletePieceDir = %v, %v", deleted, err)
	}
	exists, err := store.PieceExists("Requiem")
	if err != nil || exists {
		t.Fatalf("expected directory gone: %v", err)
	}
}

func TestFileNameLayout(t *testing.T) {
	file := &catalog.File{Name: "violin part", Type: catalog.FileTypeRevised, HashID: "k9XbT2mQ", Format: "pdf"}
	if got := assets.FileName(file); got != "violin part_1_k9XbT2mQ.pdf" {
		t.Fatalf("unexpected filename: %q", got)
	}
}

func TestHasVariantIgnoresHashSegment(t *testing.T) {
	store := newStore(t)

	if _, err := store.CreatePieceDir("Sonata"); err != nil {
		t.Fatalf("CreatePieceDir failed: %v", err)
	}
	if _, err := store.SaveFile("Sonata", "Violin1_0_k9XbT2mQ.pdf", []byte("x")); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	// An underscored name whose stored form happens to extend another
	// query's prefix: name "Aria_1", type 0.
	if _, err := store.SaveFile("Sonata", "Aria_1_0_p4WcR7nS.pdf", []byte("x")); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	cases := []struct {
		name     string
		fileType int
		format   string
		want     bool
	}{
		{"Violin1", 0, "pdf", true},
		{"Violin1", 1, "pdf", false},
		{"Violin1", 0, "png", false},
		{"Violin2", 0, "pdf", false},
		{"Aria_1", 0, "pdf", true},
		{"Aria", 1, "pdf", false},
	}
	for _, tc := range cases {
		got, err := store.HasVariant("Sonata", tc.name, tc.fileType, tc.format)
		if err != nil {
			t.Fatalf("HasVariant(%q, %d, %q) failed: %v", tc.name, tc.fileType, tc.format, err)
		}
		if got != tc.want {
			t.Fatalf("HasVariant(%q, %d, %q) = %v, want %v", tc.name, tc.fileType, tc.format, got, tc.want)
		}
	}
}

func TestListFiles(t *testing.T) {
	store := newStore(t)

	names, err := store.ListFiles("Nothing")
	if err != nil || names != nil {
		t.Fatalf("expected empty list for missing dir, got %v, %v", names, err)
	}

	if _, err := store.CreatePieceDir("Suite"); err != nil {
		t.Fatalf("CreatePieceDir failed: %v", err)
	}
	if _, err := store.SaveFile("Suite", "a_0_h1.pdf", []byte("x")); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if _, err := store.SaveFile("Suite", "b_0_h2.pdf", []byte("y")); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	names, err = store.ListFiles("Suite")
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected two files, got %v", names)
	}
}
