package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Groups, parts, and instruments are administrative reference data: flat
// CRUD plus the association tables linking groups to pieces and events.

// CreateGroup inserts a new group.
func (s *Store) CreateGroup(ctx context.Context, name string) (*Group, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO groups (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Group{ID: id, Name: name}, nil
}

// GetGroup fetches a group by id.
func (s *Store) GetGroup(ctx context.Context, id int64) (*Group, error) {
	group := &Group{}
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM groups WHERE id = ?", id).
		Scan(&group.ID, &group.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select group %d: %w", id, err)
	}
	return group, nil
}

// FindGroups returns groups matching the filter, ordered by id.
func (s *Store) FindGroups(ctx context.Context, filter GroupFilter) ([]*Group, error) {
	where, args := whereClause(filter.conditions())
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM groups"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select groups: %w", err)
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

// UpdateGroup replaces the mutable fields of a group.
func (s *Store) UpdateGroup(ctx context.Context, group *Group) error {
	res, err := s.db.ExecContext(ctx, "UPDATE groups SET name = ? WHERE id = ?", group.Name, group.ID)
	if err != nil {
		return fmt.Errorf("update group %d: %w", group.ID, err)
	}
	return requireRow(res, "group")
}

// DeleteGroup removes a group row.
func (s *Store) DeleteGroup(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete group %d: %w", id, err)
	}
	return requireRow(res, "group")
}

// CreatePart inserts a new part owned by a group.
func (s *Store) CreatePart(ctx context.Context, name string, groupID int64) (*Part, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO parts (name, group_id) VALUES (?, ?)", name, groupID)
	if err != nil {
		return nil, fmt.Errorf("insert part: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Part{ID: id, Name: name, GroupID: groupID}, nil
}

// GetPart fetches a part by id.
func (s *Store) GetPart(ctx context.Context, id int64) (*Part, error) {
	part := &Part{}
	err := s.db.QueryRowContext(ctx, "SELECT id, name, group_id FROM parts WHERE id = ?", id).
		Scan(&part.ID, &part.Name, &part.GroupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select part %d: %w", id, err)
	}
	return part, nil
}

// FindParts returns parts matching the filter, ordered by id.
func (s *Store) FindParts(ctx context.Context, filter PartFilter) ([]*Part, error) {
	where, args := whereClause(filter.conditions())
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, group_id FROM parts"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select parts: %w", err)
	}
	defer rows.Close()

	var parts []*Part
	for rows.Next() {
		part := &Part{}
		if err := rows.Scan(&part.ID, &part.Name, &part.GroupID); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		parts = append(parts, part)
	}
	return parts, rows.Err()
}

// UpdatePart replaces the mutable fields of a part.
func (s *Store) UpdatePart(ctx context.Context, part *Part) error {
	res, err := s.db.ExecContext(ctx, "UPDATE parts SET name = ?, group_id = ? WHERE id = ?",
		part.Name, part.GroupID, part.ID)
	if err != nil {
		return fmt.Errorf("update part %d: %w", part.ID, err)
	}
	return requireRow(res, "part")
}

// DeletePart removes a part row.
func (s *Store) DeletePart(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM parts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete part %d: %w", id, err)
	}
	return requireRow(res, "part")
}

// CreateInstrument inserts a new instrument owned by a part.
func (s *Store) CreateInstrument(ctx context.Context, name string, partID int64) (*Instrument, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO instruments (name, part_id) VALUES (?, ?)", name, partID)
	if err != nil {
		return nil, fmt.Errorf("insert instrument: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Instrument{ID: id, Name: name, PartID: partID}, nil
}

// GetInstrument fetches an instrument by id.
func (s *Store) GetInstrument(ctx context.Context, id int64) (*Instrument, error) {
	instrument := &Instrument{}
	err := s.db.QueryRowContext(ctx, "SELECT id, name, part_id FROM instruments WHERE id = ?", id).
		Scan(&instrument.ID, &instrument.Name, &instrument.PartID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select instrument %d: %w", id, err)
	}
	return instrument, nil
}

// FindInstruments returns instruments matching the filter, ordered by id.
func (s *Store) FindInstruments(ctx context.Context, filter InstrumentFilter) ([]*Instrument, error) {
	where, args := whereClause(filter.conditions())
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, part_id FROM instruments"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select instruments: %w", err)
	}
	defer rows.Close()

	var instruments []*Instrument
	for rows.Next() {
		instrument := &Instrument{}
		if err := rows.Scan(&instrument.ID, &instrument.Name, &instrument.PartID); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		instruments = append(instruments, instrument)
	}
	return instruments, rows.Err()
}

// UpdateInstrument replaces the mutable fields of an instrument.
func (s *Store) UpdateInstrument(ctx context.Context, instrument *Instrument) error {
	res, err := s.db.ExecContext(ctx, "UPDATE instruments SET name = ?, part_id = ? WHERE id = ?",
		instrument.Name, instrument.PartID, instrument.ID)
	if err != nil {
		return fmt.Errorf("update instrument %d: %w", instrument.ID, err)
	}
	return requireRow(res, "instrument")
}

// DeleteInstrument removes an instrument row.
func (s *Store) DeleteInstrument(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM instruments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete instrument %d: %w", id, err)
	}
	return requireRow(res, "instrument")
}

// AttachEventToGroup links an event to a group. Attaching twice is a no-op.
func (s *Store) AttachEventToGroup(ctx context.Context, groupID, eventID int64) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO groups_events (group_id, event_id) VALUES (?, ?)", groupID, eventID)
	if err != nil {
		return fmt.Errorf("attach event %d to group %d: %w", eventID, groupID, err)
	}
	return nil
}

// DetachEventFromGroup removes an event/group link.
func (s *Store) DetachEventFromGroup(ctx context.Context, groupID, eventID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM groups_events WHERE group_id = ? AND event_id = ?", groupID, eventID)
	if err != nil {
		return fmt.Errorf("detach event %d from group %d: %w", eventID, groupID, err)
	}
	return requireRow(res, "group event link")
}

// AttachPieceToGroup links a piece to a group. Attaching twice is a no-op.
func (s *Store) AttachPieceToGroup(ctx context.Context, groupID, pieceID int64) error {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.GetPiece(ctx, pieceID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO groups_pieces (group_id, piece_id) VALUES (?, ?)", groupID, pieceID)
	if err != nil {
		return fmt.Errorf("attach piece %d to group %d: %w", pieceID, groupID, err)
	}
	return nil
}

// DetachPieceFromGroup removes a piece/group link.
func (s *Store) DetachPieceFromGroup(ctx context.Context, groupID, pieceID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM groups_pieces WHERE group_id = ? AND piece_id = ?", groupID, pieceID)
	if err != nil {
		return fmt.Errorf("detach piece %d from group %d: %w", pieceID, groupID, err)
	}
	return requireRow(res, "group piece link")
}

func requireRow(res sql.Result, entity string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", entity, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
