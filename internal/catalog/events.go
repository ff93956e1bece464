package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateEvent inserts an event and its ordered program in one transaction.
func (s *Store) CreateEvent(ctx context.Context, name string, program []PieceRef) (*Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin event tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "INSERT INTO events (name) VALUES (?)", name)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := insertProgram(ctx, tx, id, program); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit event: %w", err)
	}
	return &Event{ID: id, Name: name}, nil
}

// GetEvent fetches an event by id.
func (s *Store) GetEvent(ctx context.Context, id int64) (*Event, error) {
	event := &Event{}
	err := s.db.QueryRowContext(ctx, "SELECT id, name FROM events WHERE id = ?", id).
		Scan(&event.ID, &event.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select event %d: %w", id, err)
	}
	return event, nil
}

// FindEvents returns events matching the filter, ordered by id.
func (s *Store) FindEvents(ctx context.Context, filter EventFilter) ([]*Event, error) {
	where, args := whereClause(filter.conditions())
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM events"+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		event := &Event{}
		if err := rows.Scan(&event.ID, &event.Name); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// UpdateEvent renames an event and, when program is non-nil, replaces the
// full program in the same transaction.
func (s *Store) UpdateEvent(ctx context.Context, event *Event, program []PieceRef) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE events SET name = ? WHERE id = ?", event.Name, event.ID)
	if err != nil {
		return fmt.Errorf("update event %d: %w", event.ID, err)
	}
	if err := requireRow(res, "event"); err != nil {
		return err
	}
	if program != nil {
		if _, err := tx.ExecContext(ctx, "DELETE FROM event_pieces WHERE event_id = ?", event.ID); err != nil {
			return fmt.Errorf("clear program for event %d: %w", event.ID, err)
		}
		if err := insertProgram(ctx, tx, event.ID, program); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event: %w", err)
	}
	return nil
}

// DeleteEventCascade removes an event along with its program rows and group
// links.
func (s *Store) DeleteEventCascade(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin event tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM event_pieces WHERE event_id = ?", id); err != nil {
		return fmt.Errorf("delete program for event %d: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM groups_events WHERE event_id = ?", id); err != nil {
		return fmt.Errorf("delete group links for event %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	if err := requireRow(res, "event"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit event delete: %w", err)
	}
	return nil
}

// EventPieces returns an event's program ordered by position.
func (s *Store) EventPieces(ctx context.Context, eventID int64) ([]*EventPiece, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, event_id, piece_id, position FROM event_pieces WHERE event_id = ? ORDER BY position", eventID)
	if err != nil {
		return nil, fmt.Errorf("select program for event %d: %w", eventID, err)
	}
	defer rows.Close()

	var program []*EventPiece
	for rows.Next() {
		ep := &EventPiece{}
		if err := rows.Scan(&ep.ID, &ep.EventID, &ep.PieceID, &ep.Position); err != nil {
			return nil, fmt.Errorf("scan event piece: %w", err)
		}
		program = append(program, ep)
	}
	return program, rows.Err()
}

// EventGroups returns the groups an event is attached to.
func (s *Store) EventGroups(ctx context.Context, eventID int64) ([]*Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name FROM groups g
		JOIN groups_events ge ON ge.group_id = g.id
		WHERE ge.event_id = ? ORDER BY g.id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("select groups for event %d: %w", eventID, err)
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

func insertProgram(ctx context.Context, tx *sql.Tx, eventID int64, program []PieceRef) error {
	for _, ref := range program {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_pieces (event_id, piece_id, position) VALUES (?, ?, ?)",
			eventID, ref.PieceID, ref.Position)
		if err != nil {
			return fmt.Errorf("insert program entry piece %d: %w", ref.PieceID, err)
		}
	}
	return nil
}
