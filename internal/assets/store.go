package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"scorevault/internal/catalog"
	"scorevault/internal/config"
	"scorevault/internal/fileutil"
)

// Store manages piece directories and files under a single library root.
// Mutating operations return a bool reporting whether the operation applied:
// false with a nil error means the precondition failed (target missing or
// already present), while a non-nil error means I/O actually went wrong.
type Store struct {
	root string
}

// Open prepares an asset store rooted at the configured library directory.
func Open(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("assets: config required")
	}
	if cfg.LibraryDir == "" {
		return nil, errors.New("assets: library directory required")
	}
	return &Store{root: cfg.LibraryDir}, nil
}

// Root returns the library root directory.
func (s *Store) Root() string {
	return s.root
}

// FileName builds the deterministic on-disk name for a file:
// "<name>_<type>_<hash>.<format>".
func FileName(f *catalog.File) string {
	return fmt.Sprintf("%s_%d_%s.%s", f.Name, f.Type, f.HashID, f.Format)
}

// PieceExists reports whether a directory with the given name exists under
// the root. A missing root means no pieces exist yet.
func (s *Store) PieceExists(name string) (bool, error) {
	info, err := os.Stat(filepath.Join(s.root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat piece dir %q: %w", name, err)
	}
	return info.IsDir(), nil
}

// FileExists reports whether the named file exists inside a piece directory.
func (s *Store) FileExists(pieceName, filename string) (bool, error) {
	info, err := os.Stat(s.FilePath(pieceName, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat file %q: %w", filename, err)
	}
	return !info.IsDir(), nil
}

// CreatePieceDir makes the directory for a new piece. It returns false when
// a directory with that name is already present.
func (s *Store) CreatePieceDir(name string) (bool, error) {
	exists, err := s.PieceExists(name)
	if err != nil || exists {
		return false, err
	}
	if err := os.MkdirAll(filepath.Join(s.root, name), 0o755); err != nil {
		return false, fmt.Errorf("create piece dir %q: %w", name, err)
	}
	return true, nil
}

// RenamePieceDir moves a piece directory to a new name. It returns false
// when the source is missing or the target name is already taken.
func (s *Store) RenamePieceDir(oldName, newName string) (bool, error) {
	srcExists, err := s.PieceExists(oldName)
	if err != nil || !srcExists {
		return false, err
	}
	dstExists, err := s.PieceExists(newName)
	if err != nil || dstExists {
		return false, err
	}
	src := filepath.Join(s.root, oldName)
	dst := filepath.Join(s.root, newName)
	if err := fileutil.MoveDir(src, dst); err != nil {
		return false, fmt.Errorf("rename piece dir %q to %q: %w", oldName, newName, err)
	}
	return true, nil
}

// DeletePieceDir removes a piece directory and everything in it. It returns
// false when the directory is already gone.
func (s *Store) DeletePieceDir(name string) (bool, error) {
	exists, err := s.PieceExists(name)
	if err != nil || !exists {
		return false, err
	}
	if err := os.RemoveAll(filepath.Join(s.root, name)); err != nil {
		return false, fmt.Errorf("delete piece dir %q: %w", name, err)
	}
	return true, nil
}

// SaveFile writes content into a piece directory. It returns false when the
// piece directory is missing or a file with that name is already present.
func (s *Store) SaveFile(pieceName, filename string, content []byte) (bool, error) {
	dirExists, err := s.PieceExists(pieceName)
	if err != nil || !dirExists {
		return false, err
	}
	fileExists, err := s.FileExists(pieceName, filename)
	if err != nil || fileExists {
		return false, err
	}
	if err := os.WriteFile(s.FilePath(pieceName, filename), content, 0o644); err != nil {
		return false, fmt.Errorf("write file %q: %w", filename, err)
	}
	return true, nil
}

// HasVariant reports whether the piece directory already holds a file for
// the same name/type/format triple, regardless of the hash segment. This is
// the duplicate guard for uploads: the hash differs for every row, so an
// exact-filename check would never catch a logical re-upload.
func (s *Store) HasVariant(pieceName, name string, fileType int, format string) (bool, error) {
	entries, err := s.ListFiles(pieceName)
	if err != nil {
		return false, err
	}
	prefix := fmt.Sprintf("%s_%d_", name, fileType)
	suffix := "." + format
	for _, entry := range entries {
		if !strings.HasPrefix(entry, prefix) || !strings.HasSuffix(entry, suffix) {
			continue
		}
		// Names may themselves contain underscores and digits, so a
		// prefix match alone is ambiguous: "A_1_0_<hash>.pdf" also
		// starts with "A_1_". Require the remainder to look like a
		// bare hash segment, which is alphanumeric.
		hashSegment := strings.TrimSuffix(strings.TrimPrefix(entry, prefix), suffix)
		if hashSegment != "" && !strings.ContainsAny(hashSegment, "_.") {
			return true, nil
		}
	}
	return false, nil
}

// DeleteFile removes a file from a piece directory. It returns false when
// the file is already gone.
func (s *Store) DeleteFile(pieceName, filename string) (bool, error) {
	exists, err := s.FileExists(pieceName, filename)
	if err != nil || !exists {
		return false, err
	}
	if err := os.Remove(s.FilePath(pieceName, filename)); err != nil {
		return false, fmt.Errorf("delete file %q: %w", filename, err)
	}
	return true, nil
}

// ReadFile returns the content of a stored file.
func (s *Store) ReadFile(pieceName, filename string) ([]byte, error) {
	data, err := os.ReadFile(s.FilePath(pieceName, filename))
	if err != nil {
		return nil, fmt.Errorf("read file %q: %w", filename, err)
	}
	return data, nil
}

// FilePath returns the absolute path of a file inside a piece directory.
func (s *Store) FilePath(pieceName, filename string) string {
	return filepath.Join(s.root, pieceName, filename)
}

// ListFiles returns the filenames stored in a piece directory, sorted by the
// directory iteration order of the OS. A missing directory yields an empty
// list.
func (s *Store) ListFiles(pieceName string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, pieceName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list piece dir %q: %w", pieceName, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
