package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const fileColumns = "id, hash_id, name, type, format, filename, created_at"

// CreateFile inserts a file row, derives its public identity from the fresh
// primary key via the identity callback, and links it to the given
// instrumentations, all in one transaction. When transposeFrom is non-zero a
// transpose row is recorded as well. The file's ID, HashID, Filename, and
// CreatedAt are set on return.
func (s *Store) CreateFile(ctx context.Context, file *File, instrumentationIDs []int64,
	transposeFrom int64, identity func(id int64) (hash, filename string, err error)) (*Transpose, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin file tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	file.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO files (name, type, format, created_at) VALUES (?, ?, ?, ?)",
		file.Name, file.Type, file.Format, formatTime(file.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert file: %w", err)
	}
	file.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	// The public hash and the on-disk filename both depend on the row id,
	// so they are written in a second statement within the same tx.
	file.HashID, file.Filename, err = identity(file.ID)
	if err != nil {
		return nil, fmt.Errorf("derive file identity: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE files SET hash_id = ?, filename = ? WHERE id = ?",
		file.HashID, file.Filename, file.ID); err != nil {
		return nil, fmt.Errorf("assign file identity: %w", err)
	}

	for _, instID := range instrumentationIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO instrumentations_files (instrumentation_id, file_id) VALUES (?, ?)",
			instID, file.ID); err != nil {
			return nil, fmt.Errorf("link file to instrumentation %d: %w", instID, err)
		}
	}

	var transpose *Transpose
	if transposeFrom != 0 {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO transposes (file_id, instrument_id) VALUES (?, ?)", file.ID, transposeFrom)
		if err != nil {
			return nil, fmt.Errorf("insert transpose: %w", err)
		}
		tid, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		transpose = &Transpose{ID: tid, FileID: file.ID, InstrumentID: transposeFrom}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit file: %w", err)
	}
	return transpose, nil
}

// GetFile fetches a file by primary key.
func (s *Store) GetFile(ctx context.Context, id int64) (*File, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE id = ?", id)
	return scanFileRow(row, fmt.Sprintf("file %d", id))
}

// GetFileByHash fetches a file by its public hash identifier.
func (s *Store) GetFileByHash(ctx context.Context, hashID string) (*File, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE hash_id = ?", hashID)
	return scanFileRow(row, "file "+hashID)
}

// FindFiles returns files matching the filter, ordered by id.
func (s *Store) FindFiles(ctx context.Context, filter FileFilter) ([]*File, error) {
	where, args := whereClause(filter.conditions())
	rows, err := s.db.QueryContext(ctx, "SELECT "+fileColumns+" FROM files"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select files: %w", err)
	}
	defer rows.Close()

	var files []*File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

// DeleteFileCascade removes a file row together with its transpose and
// instrumentation links.
func (s *Store) DeleteFileCascade(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin file tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM transposes WHERE file_id = ?", id); err != nil {
		return fmt.Errorf("delete transpose for file %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM instrumentations_files WHERE file_id = ?", id); err != nil {
		return fmt.Errorf("delete links for file %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete file %d: %w", id, err)
	}
	if err := requireRow(res, "file"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit file delete: %w", err)
	}
	return nil
}

// FileTranspose returns the file's transpose record, or nil when the file is
// not a transposed part.
func (s *Store) FileTranspose(ctx context.Context, fileID int64) (*Transpose, error) {
	transpose := &Transpose{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, file_id, instrument_id FROM transposes WHERE file_id = ?", fileID).
		Scan(&transpose.ID, &transpose.FileID, &transpose.InstrumentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select transpose for file %d: %w", fileID, err)
	}
	return transpose, nil
}

// FileInstrumentations returns the instrumentations a file is linked to.
func (s *Store) FileInstrumentations(ctx context.Context, fileID int64) ([]*Instrumentation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.piece_id, i.instrument_id FROM instrumentations i
		JOIN instrumentations_files link ON link.instrumentation_id = i.id
		WHERE link.file_id = ? ORDER BY i.id`, fileID)
	if err != nil {
		return nil, fmt.Errorf("select instrumentations for file %d: %w", fileID, err)
	}
	defer rows.Close()

	var list []*Instrumentation
	for rows.Next() {
		inst := &Instrumentation{}
		if err := rows.Scan(&inst.ID, &inst.PieceID, &inst.InstrumentID); err != nil {
			return nil, fmt.Errorf("scan instrumentation: %w", err)
		}
		list = append(list, inst)
	}
	return list, rows.Err()
}

// PieceForFile resolves the piece a file belongs to via its first
// instrumentation link.
func (s *Store) PieceForFile(ctx context.Context, fileID int64) (*Piece, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.author, p.lyricist, p.arranger, p.opus, p.type, p.copyright_expire_date, p.created_at
		FROM pieces p
		JOIN instrumentations i ON i.piece_id = p.id
		JOIN instrumentations_files link ON link.instrumentation_id = i.id
		WHERE link.file_id = ?
		ORDER BY i.id LIMIT 1`, fileID)
	piece, err := scanPiece(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select piece for file %d: %w", fileID, err)
	}
	return piece, nil
}

func scanFile(row rowScanner) (*File, error) {
	file := &File{}
	var created string
	err := row.Scan(&file.ID, &file.HashID, &file.Name, &file.Type, &file.Format, &file.Filename, &created)
	if err != nil {
		return nil, err
	}
	file.CreatedAt = parseTime(created)
	return file, nil
}

func scanFileRow(row *sql.Row, what string) (*File, error) {
	file, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}
	return file, nil
}
