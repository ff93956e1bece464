package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const pieceColumns = "id, name, author, lyricist, arranger, opus, type, copyright_expire_date, created_at"

// CreatePiece inserts a piece with its group links and instrumentations in
// one transaction. The piece's ID and CreatedAt are set on return.
func (s *Store) CreatePiece(ctx context.Context, piece *Piece, groupIDs, instrumentIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin piece tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	piece.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO pieces (name, author, lyricist, arranger, opus, type, copyright_expire_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		piece.Name, piece.Author, piece.Lyricist, piece.Arranger, piece.Opus, piece.Type,
		formatDate(piece.CopyrightExpire), formatTime(piece.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert piece: %w", err)
	}
	piece.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for _, groupID := range groupIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO groups_pieces (group_id, piece_id) VALUES (?, ?)", groupID, piece.ID); err != nil {
			return fmt.Errorf("link piece to group %d: %w", groupID, err)
		}
	}
	for _, instrumentID := range instrumentIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO instrumentations (piece_id, instrument_id) VALUES (?, ?)", piece.ID, instrumentID); err != nil {
			return fmt.Errorf("add instrumentation for instrument %d: %w", instrumentID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit piece: %w", err)
	}
	return nil
}

// GetPiece fetches a piece by id.
func (s *Store) GetPiece(ctx context.Context, id int64) (*Piece, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+pieceColumns+" FROM pieces WHERE id = ?", id)
	piece, err := scanPiece(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select piece %d: %w", id, err)
	}
	return piece, nil
}

// FindPieces returns pieces matching the filter, ordered by id.
func (s *Store) FindPieces(ctx context.Context, filter PieceFilter) ([]*Piece, error) {
	where, args := whereClause(filter.conditions())
	rows, err := s.db.QueryContext(ctx, "SELECT "+pieceColumns+" FROM pieces"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select pieces: %w", err)
	}
	defer rows.Close()

	var pieces []*Piece
	for rows.Next() {
		piece, err := scanPiece(rows)
		if err != nil {
			return nil, fmt.Errorf("scan piece: %w", err)
		}
		pieces = append(pieces, piece)
	}
	return pieces, rows.Err()
}

// UpdatePiece replaces a piece's scalar fields. When groupIDs or
// instrumentIDs is non-nil the corresponding association set is replaced
// wholesale in the same transaction.
func (s *Store) UpdatePiece(ctx context.Context, piece *Piece, groupIDs, instrumentIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin piece tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE pieces SET name = ?, author = ?, lyricist = ?, arranger = ?, opus = ?, type = ?, copyright_expire_date = ?
		WHERE id = ?`,
		piece.Name, piece.Author, piece.Lyricist, piece.Arranger, piece.Opus, piece.Type,
		formatDate(piece.CopyrightExpire), piece.ID)
	if err != nil {
		return fmt.Errorf("update piece %d: %w", piece.ID, err)
	}
	if err := requireRow(res, "piece"); err != nil {
		return err
	}

	if groupIDs != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM groups_pieces WHERE piece_id = ?", piece.ID); err != nil {
			return fmt.Errorf("clear group links for piece %d: %w", piece.ID, err)
		}
		for _, groupID := range groupIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO groups_pieces (group_id, piece_id) VALUES (?, ?)", groupID, piece.ID); err != nil {
				return fmt.Errorf("link piece to group %d: %w", groupID, err)
			}
		}
	}
	if instrumentIDs != nil {
		// Replacing instrumentations drops file links attached to the old
		// rows first so the FK chain stays valid.
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM instrumentations_files WHERE instrumentation_id IN
			(SELECT id FROM instrumentations WHERE piece_id = ?)`, piece.ID); err != nil {
			return fmt.Errorf("clear file links for piece %d: %w", piece.ID, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM instrumentations WHERE piece_id = ?", piece.ID); err != nil {
			return fmt.Errorf("clear instrumentations for piece %d: %w", piece.ID, err)
		}
		for _, instrumentID := range instrumentIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO instrumentations (piece_id, instrument_id) VALUES (?, ?)", piece.ID, instrumentID); err != nil {
				return fmt.Errorf("add instrumentation for instrument %d: %w", instrumentID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit piece: %w", err)
	}
	return nil
}

// DeletePieceCascade removes a piece and every row hanging off it: files
// reachable through its instrumentations (with their transposes and links),
// the instrumentations themselves, program entries, and group links.
// It returns the filenames of the deleted files so the caller can remove
// them from disk after the rows are gone.
func (s *Store) DeletePieceCascade(ctx context.Context, id int64) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin piece tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT DISTINCT f.id, f.filename FROM files f
		JOIN instrumentations_files link ON link.file_id = f.id
		JOIN instrumentations i ON i.id = link.instrumentation_id
		WHERE i.piece_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("select files for piece %d: %w", id, err)
	}
	var fileIDs []int64
	var filenames []string
	for rows.Next() {
		var fileID int64
		var filename string
		if err := rows.Scan(&fileID, &filename); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan file: %w", err)
		}
		fileIDs = append(fileIDs, fileID)
		filenames = append(filenames, filename)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("close file rows: %w", err)
	}

	for _, fileID := range fileIDs {
		if _, err := tx.ExecContext(ctx, "DELETE FROM transposes WHERE file_id = ?", fileID); err != nil {
			return nil, fmt.Errorf("delete transpose for file %d: %w", fileID, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM instrumentations_files WHERE file_id = ?", fileID); err != nil {
			return nil, fmt.Errorf("delete file links for file %d: %w", fileID, err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM files WHERE id = ?", fileID); err != nil {
			return nil, fmt.Errorf("delete file %d: %w", fileID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM instrumentations WHERE piece_id = ?", id); err != nil {
		return nil, fmt.Errorf("delete instrumentations for piece %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM event_pieces WHERE piece_id = ?", id); err != nil {
		return nil, fmt.Errorf("delete program entries for piece %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM groups_pieces WHERE piece_id = ?", id); err != nil {
		return nil, fmt.Errorf("delete group links for piece %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM pieces WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("delete piece %d: %w", id, err)
	}
	if err := requireRow(res, "piece"); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit piece delete: %w", err)
	}
	return filenames, nil
}

// PieceGroups returns the groups a piece is attached to.
func (s *Store) PieceGroups(ctx context.Context, pieceID int64) ([]*Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name FROM groups g
		JOIN groups_pieces gp ON gp.group_id = g.id
		WHERE gp.piece_id = ? ORDER BY g.id`, pieceID)
	if err != nil {
		return nil, fmt.Errorf("select groups for piece %d: %w", pieceID, err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(&group.ID, &group.Name); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

// PieceInstrumentations returns a piece's instrumentations ordered by id.
func (s *Store) PieceInstrumentations(ctx context.Context, pieceID int64) ([]*Instrumentation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, piece_id, instrument_id FROM instrumentations WHERE piece_id = ? ORDER BY id", pieceID)
	if err != nil {
		return nil, fmt.Errorf("select instrumentations for piece %d: %w", pieceID, err)
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

// AddInstrumentation records that a piece is scored for an instrument.
func (s *Store) AddInstrumentation(ctx context.Context, pieceID, instrumentID int64) (*Instrumentation, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO instrumentations (piece_id, instrument_id) VALUES (?, ?)", pieceID, instrumentID)
	if err != nil {
		return nil, fmt.Errorf("insert instrumentation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Instrumentation{ID: id, PieceID: pieceID, InstrumentID: instrumentID}, nil
}

// GetInstrumentation fetches an instrumentation by id.
func (s *Store) GetInstrumentation(ctx context.Context, id int64) (*Instrumentation, error) {
	inst := &Instrumentation{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, piece_id, instrument_id FROM instrumentations WHERE id = ?", id).
		Scan(&inst.ID, &inst.PieceID, &inst.InstrumentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select instrumentation %d: %w", id, err)
	}
	return inst, nil
}

// RemoveInstrumentation deletes an instrumentation and its file links.
func (s *Store) RemoveInstrumentation(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin instrumentation tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM instrumentations_files WHERE instrumentation_id = ?", id); err != nil {
		return fmt.Errorf("delete file links for instrumentation %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM instrumentations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete instrumentation %d: %w", id, err)
	}
	if err := requireRow(res, "instrumentation"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit instrumentation delete: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPiece(row rowScanner) (*Piece, error) {
	piece := &Piece{}
	var copyright sql.NullString
	var created string
	err := row.Scan(&piece.ID, &piece.Name, &piece.Author, &piece.Lyricist, &piece.Arranger,
		&piece.Opus, &piece.Type, &copyright, &created)
	if err != nil {
		return nil, err
	}
	piece.CopyrightExpire = parseDate(copyright)
	piece.CreatedAt = parseTime(created)
	return piece, nil
}
