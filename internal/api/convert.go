package api

import (
	"time"

	"scorevault/internal/catalog"
)

// FromGroup converts a group record to its API representation.
func FromGroup(group *catalog.Group) Group {
	if group == nil {
		return Group{}
	}
	return Group{ID: group.ID, Name: group.Name}
}

// FromGroups converts a slice of group records.
func FromGroups(groups []*catalog.Group) []Group {
	out := make([]Group, 0, len(groups))
	for _, group := range groups {
		out = append(out, FromGroup(group))
	}
	return out
}

// FromPart converts a part record to its API representation.
func FromPart(part *catalog.Part) Part {
	if part == nil {
		return Part{}
	}
	return Part{ID: part.ID, Name: part.Name, GroupID: part.GroupID}
}

// FromParts converts a slice of part records.
func FromParts(parts []*catalog.Part) []Part {
	out := make([]Part, 0, len(parts))
	for _, part := range parts {
		out = append(out, FromPart(part))
	}
	return out
}

// FromInstrument converts an instrument record to its API representation.
func FromInstrument(instrument *catalog.Instrument) Instrument {
	if instrument == nil {
		return Instrument{}
	}
	return Instrument{ID: instrument.ID, Name: instrument.Name, PartID: instrument.PartID}
}

// FromInstruments converts a slice of instrument records.
func FromInstruments(instruments []*catalog.Instrument) []Instrument {
	out := make([]Instrument, 0, len(instruments))
	for _, instrument := range instruments {
		out = append(out, FromInstrument(instrument))
	}
	return out
}

// FromInstrumentation converts an instrumentation record.
func FromInstrumentation(inst *catalog.Instrumentation) Instrumentation {
	if inst == nil {
		return Instrumentation{}
	}
	return Instrumentation{ID: inst.ID, PieceID: inst.PieceID, InstrumentID: inst.InstrumentID}
}

// FromInstrumentations converts a slice of instrumentation records.
func FromInstrumentations(insts []*catalog.Instrumentation) []Instrumentation {
	out := make([]Instrumentation, 0, len(insts))
	for _, inst := range insts {
		out = append(out, FromInstrumentation(inst))
	}
	return out
}

// FromPiece converts a piece record with its preloaded associations.
func FromPiece(piece *catalog.Piece, groups []*catalog.Group, insts []*catalog.Instrumentation) Piece {
	if piece == nil {
		return Piece{}
	}
	dto := Piece{
		ID:               piece.ID,
		Name:             piece.Name,
		Author:           piece.Author,
		Lyricist:         piece.Lyricist,
		Arranger:         piece.Arranger,
		Opus:             piece.Opus,
		Type:             piece.Type,
		Groups:           FromGroups(groups),
		Instrumentations: FromInstrumentations(insts),
	}
	if piece.CopyrightExpire != nil {
		dto.CopyrightExpire = piece.CopyrightExpire.UTC().Format(dateFormat)
	}
	dto.CreatedAt = formatTimestamp(piece.CreatedAt)
	return dto
}

// FromEvent converts an event record with its program and groups.
func FromEvent(event *catalog.Event, program []*catalog.EventPiece, groups []*catalog.Group) Event {
	if event == nil {
		return Event{}
	}
	entries := make([]ProgramEntry, 0, len(program))
	for _, ep := range program {
		entries = append(entries, ProgramEntry{PieceID: ep.PieceID, Position: ep.Position})
	}
	return Event{
		ID:      event.ID,
		Name:    event.Name,
		Program: entries,
		Groups:  FromGroups(groups),
	}
}

// FromFile converts a file record and its optional transpose.
func FromFile(file *catalog.File, transpose *catalog.Transpose) File {
	if file == nil {
		return File{}
	}
	dto := File{
		HashID:    file.HashID,
		Name:      file.Name,
		Type:      file.Type,
		Format:    file.Format,
		Filename:  file.Filename,
		CreatedAt: formatTimestamp(file.CreatedAt),
	}
	if transpose != nil {
		dto.Transpose = &Transpose{InstrumentID: transpose.InstrumentID}
	}
	return dto
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}
