package catalog

import "strings"

// Query filters are typed query-by-example structures: nil fields are
// ignored, set fields become exact-match predicates. This replaces dynamic
// keyword filtering with something the compiler can check.

type condition struct {
	expr string
	arg  any
}

func whereClause(conds []condition) (string, []any) {
	if len(conds) == 0 {
		return "", nil
	}
	exprs := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, c := range conds {
		exprs = append(exprs, c.expr)
		args = append(args, c.arg)
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

// GroupFilter selects groups by exact field match.
type GroupFilter struct {
	ID   *int64
	Name *string
}

func (f GroupFilter) conditions() []condition {
	var conds []condition
	if f.ID != nil {
		conds = append(conds, condition{"id = ?", *f.ID})
	}
	if f.Name != nil {
		conds = append(conds, condition{"name = ?", *f.Name})
	}
	return conds
}

// PartFilter selects parts by exact field match.
type PartFilter struct {
	ID      *int64
	Name    *string
	GroupID *int64
}

func (f PartFilter) conditions() []condition {
	var conds []condition
	if f.ID != nil {
		conds = append(conds, condition{"id = ?", *f.ID})
	}
	if f.Name != nil {
		conds = append(conds, condition{"name = ?", *f.Name})
	}
	if f.GroupID != nil {
		conds = append(conds, condition{"group_id = ?", *f.GroupID})
	}
	return conds
}

// InstrumentFilter selects instruments by exact field match.
type InstrumentFilter struct {
	ID     *int64
	Name   *string
	PartID *int64
}

func (f InstrumentFilter) conditions() []condition {
	var conds []condition
	if f.ID != nil {
		conds = append(conds, condition{"id = ?", *f.ID})
	}
	if f.Name != nil {
		conds = append(conds, condition{"name = ?", *f.Name})
	}
	if f.PartID != nil {
		conds = append(conds, condition{"part_id = ?", *f.PartID})
	}
	return conds
}

// EventFilter selects events by exact field match.
type EventFilter struct {
	ID   *int64
	Name *string
}

func (f EventFilter) conditions() []condition {
	var conds []condition
	if f.ID != nil {
		conds = append(conds, condition{"id = ?", *f.ID})
	}
	if f.Name != nil {
		conds = append(conds, condition{"name = ?", *f.Name})
	}
	return conds
}

// PieceFilter selects pieces by exact field match.
type PieceFilter struct {
	ID       *int64
	Name     *string
	Author   *string
	Lyricist *string
	Arranger *string
	Opus     *int64
	Type     *int
}

func (f PieceFilter) conditions() []condition {
	var conds []condition
	if f.ID != nil {
		conds = append(conds, condition{"id = ?", *f.ID})
	}
	if f.Name != nil {
		conds = append(conds, condition{"name = ?", *f.Name})
	}
	if f.Author != nil {
		conds = append(conds, condition{"author = ?", *f.Author})
	}
	if f.Lyricist != nil {
		conds = append(conds, condition{"lyricist = ?", *f.Lyricist})
	}
	if f.Arranger != nil {
		conds = append(conds, condition{"arranger = ?", *f.Arranger})
	}
	if f.Opus != nil {
		conds = append(conds, condition{"opus = ?", *f.Opus})
	}
	if f.Type != nil {
		conds = append(conds, condition{"type = ?", *f.Type})
	}
	return conds
}

// FileFilter selects files by exact field match. Files are addressed by
// hash id externally, never by primary key.
type FileFilter struct {
	HashID   *string
	Name     *string
	Format   *string
	Filename *string
	Type     *int
}

func (f FileFilter) conditions() []condition {
	var conds []condition
	if f.HashID != nil {
		conds = append(conds, condition{"hash_id = ?", *f.HashID})
	}
	if f.Name != nil {
		conds = append(conds, condition{"name = ?", *f.Name})
	}
	if f.Format != nil {
		conds = append(conds, condition{"format = ?", *f.Format})
	}
	if f.Filename != nil {
		conds = append(conds, condition{"filename = ?", *f.Filename})
	}
	if f.Type != nil {
		conds = append(conds, condition{"type = ?", *f.Type})
	}
	return conds
}
