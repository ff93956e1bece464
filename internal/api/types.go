package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// dateFormat is used for date-only fields such as copyright expiry.
const dateFormat = "2006-01-02"

// Group describes an ensemble in a transport-friendly format.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Part describes a group section.
type Part struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GroupID int64  `json:"groupId"`
}

// Instrument describes an instrument within a part.
type Instrument struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	PartID int64  `json:"partId"`
}

// Instrumentation records that a piece is scored for an instrument.
type Instrumentation struct {
	ID           int64 `json:"id"`
	PieceID      int64 `json:"pieceId"`
	InstrumentID int64 `json:"instrumentId"`
}

// Piece describes a musical work together with its group memberships and
// instrumentations.
type Piece struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Author           string            `json:"author,omitempty"`
	Lyricist         string            `json:"lyricist,omitempty"`
	Arranger         string            `json:"arranger,omitempty"`
	Opus             int64             `json:"opus,omitempty"`
	Type             int               `json:"type"`
	CopyrightExpire  string            `json:"copyrightExpireDate,omitempty"`
	CreatedAt        string            `json:"createdTime,omitempty"`
	Groups           []Group           `json:"groups"`
	Instrumentations []Instrumentation `json:"instrumentations"`
}

// ProgramEntry is one positioned piece of an event program.
type ProgramEntry struct {
	PieceID  int64 `json:"pieceId"`
	Position int   `json:"position"`
}

// Event describes a performance and its ordered program.
type Event struct {
	ID      int64          `json:"id"`
	Name    string         `json:"name"`
	Program []ProgramEntry `json:"program"`
	Groups  []Group        `json:"groups"`
}

// Transpose marks a file as a transposed part.
type Transpose struct {
	InstrumentID int64 `json:"instrumentId"`
}

// File describes a stored sheet-music document. The internal row id is
// deliberately absent: files are addressed by hash only.
type File struct {
	HashID    string     `json:"hashId"`
	Name      string     `json:"name"`
	Type      int        `json:"type"`
	Format    string     `json:"format"`
	Filename  string     `json:"filename"`
	CreatedAt string     `json:"createdTime,omitempty"`
	Transpose *Transpose `json:"transpose,omitempty"`
}

// Info aggregates library-wide state for status displays: the full ensemble
// taxonomy plus row counts and storage paths.
type Info struct {
	LibraryDir   string           `json:"libraryDir"`
	DatabasePath string           `json:"databasePath"`
	Groups       []Group          `json:"groups"`
	Parts        []Part           `json:"parts"`
	Instruments  []Instrument     `json:"instruments"`
	Counts       map[string]int64 `json:"counts"`
}
