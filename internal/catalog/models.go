package catalog

import "time"

// File type discriminators embedded in on-disk filenames.
const (
	FileTypeOriginal = 0
	FileTypeRevised  = 1
)

// Group is an organizational ensemble (orchestra, choir, quartet).
type Group struct {
	ID   int64
	Name string
}

// Part is a section of a group (strings, brass, soprano).
type Part struct {
	ID      int64
	Name    string
	GroupID int64
}

// Instrument belongs to a part and is what sheet music is scored for.
type Instrument struct {
	ID     int64
	Name   string
	PartID int64
}

// Event is a performance referencing an ordered program of pieces.
type Event struct {
	ID   int64
	Name string
}

// EventPiece is the ordering join row between an event and a piece. It is
// identified by its own id; position is unique per event only by convention.
type EventPiece struct {
	ID       int64
	EventID  int64
	PieceID  int64
	Position int
}

// PieceRef names a piece and its position when building an event program.
type PieceRef struct {
	PieceID  int64
	Position int
}

// Piece is a musical work. Its name doubles as the asset directory name,
// so uniqueness among live pieces is enforced by the asset store rather
// than a database constraint.
type Piece struct {
	ID              int64
	Name            string
	Author          string
	Lyricist        string
	Arranger        string
	Opus            int64
	Type            int
	CopyrightExpire *time.Time
	CreatedAt       time.Time
}

// Instrumentation records that a piece is scored for an instrument. Files
// attach to instrumentations, not to pieces directly.
type Instrumentation struct {
	ID           int64
	PieceID      int64
	InstrumentID int64
}

// File is one stored sheet-music document. HashID is the public identifier
// derived from the primary key after insertion; Filename is the
// deterministic on-disk name "<name>_<type>_<hash>.<format>".
type File struct {
	ID        int64
	HashID    string
	Name      string
	Type      int
	Format    string
	Filename  string
	CreatedAt time.Time
}

// Transpose marks a file as a transposed part and records the instrument it
// was transposed from. At most one per file.
type Transpose struct {
	ID           int64
	FileID       int64
	InstrumentID int64
}
