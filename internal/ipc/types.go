package ipc

import "scorevault/internal/api"

// EmptyResponse is used by calls with no payload beyond success.
type EmptyResponse struct{}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running      bool             `json:"running"`
	PID          int              `json:"pid"`
	DatabasePath string           `json:"databasePath"`
	LibraryDir   string           `json:"libraryDir"`
	SocketPath   string           `json:"socketPath"`
	LockPath     string           `json:"lockPath"`
	Counts       map[string]int64 `json:"counts"`
}

// ShutdownRequest asks the daemon process to exit.
type ShutdownRequest struct{}

// ShutdownResponse acknowledges a shutdown request.
type ShutdownResponse struct {
	Stopping bool `json:"stopping"`
}

// InfoRequest fetches the library info aggregate.
type InfoRequest struct{}

// InfoResponse wraps the library info aggregate.
type InfoResponse struct {
	Info api.Info `json:"info"`
}

// NameRequest creates or renames a flat entity.
type NameRequest struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// IDRequest addresses one entity by id.
type IDRequest struct {
	ID int64 `json:"id"`
}

// GroupResponse wraps one group.
type GroupResponse struct {
	Group api.Group `json:"group"`
}

// GroupListRequest filters groups by exact field match.
type GroupListRequest struct {
	ID   *int64  `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// GroupListResponse contains groups.
type GroupListResponse struct {
	Groups []api.Group `json:"groups"`
}

// GroupLinkRequest links or unlinks a piece or event to a group.
type GroupLinkRequest struct {
	GroupID  int64 `json:"groupId"`
	TargetID int64 `json:"targetId"`
}

// PartRequest creates or updates a part.
type PartRequest struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name"`
	GroupID int64  `json:"groupId"`
}

// PartResponse wraps one part.
type PartResponse struct {
	Part api.Part `json:"part"`
}

// PartListRequest filters parts by exact field match.
type PartListRequest struct {
	ID      *int64  `json:"id,omitempty"`
	Name    *string `json:"name,omitempty"`
	GroupID *int64  `json:"groupId,omitempty"`
}

// PartListResponse contains parts.
type PartListResponse struct {
	Parts []api.Part `json:"parts"`
}

// InstrumentRequest creates or updates an instrument.
type InstrumentRequest struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name"`
	PartID int64  `json:"partId"`
}

// InstrumentResponse wraps one instrument.
type InstrumentResponse struct {
	Instrument api.Instrument `json:"instrument"`
}

// InstrumentListRequest filters instruments by exact field match.
type InstrumentListRequest struct {
	ID     *int64  `json:"id,omitempty"`
	Name   *string `json:"name,omitempty"`
	PartID *int64  `json:"partId,omitempty"`
}

// InstrumentListResponse contains instruments.
type InstrumentListResponse struct {
	Instruments []api.Instrument `json:"instruments"`
}

// PieceRequest creates or updates a piece. CopyrightExpireDate uses the
// YYYY-MM-DD layout; empty means none.
type PieceRequest struct {
	ID                  int64   `json:"id,omitempty"`
	Name                string  `json:"name"`
	Author              string  `json:"author,omitempty"`
	Lyricist            string  `json:"lyricist,omitempty"`
	Arranger            string  `json:"arranger,omitempty"`
	Opus                int64   `json:"opus,omitempty"`
	Type                int     `json:"type,omitempty"`
	CopyrightExpireDate string  `json:"copyrightExpireDate,omitempty"`
	GroupIDs            []int64 `json:"groupIds,omitempty"`
	InstrumentIDs       []int64 `json:"instrumentIds,omitempty"`
}

// PieceResponse wraps one piece.
type PieceResponse struct {
	Piece api.Piece `json:"piece"`
}

// PieceListRequest filters pieces by exact field match.
type PieceListRequest struct {
	ID       *int64  `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Author   *string `json:"author,omitempty"`
	Lyricist *string `json:"lyricist,omitempty"`
	Arranger *string `json:"arranger,omitempty"`
	Opus     *int64  `json:"opus,omitempty"`
	Type     *int    `json:"type,omitempty"`
}

// PieceListResponse contains pieces.
type PieceListResponse struct {
	Pieces []api.Piece `json:"pieces"`
}

// PieceDeleteRequest removes pieces in bulk.
type PieceDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// InstrumentationRequest scores a piece for an instrument.
type InstrumentationRequest struct {
	PieceID      int64 `json:"pieceId"`
	InstrumentID int64 `json:"instrumentId"`
}

// InstrumentationResponse wraps one instrumentation.
type InstrumentationResponse struct {
	Instrumentation api.Instrumentation `json:"instrumentation"`
}

// EventRequest creates or updates an event. SetProgram distinguishes "leave
// the program alone" from "replace it with an empty one".
type EventRequest struct {
	ID         int64              `json:"id,omitempty"`
	Name       string             `json:"name"`
	Program    []api.ProgramEntry `json:"program,omitempty"`
	SetProgram bool               `json:"setProgram,omitempty"`
}

// EventResponse wraps one event.
type EventResponse struct {
	Event api.Event `json:"event"`
}

// EventListRequest filters events by exact field match.
type EventListRequest struct {
	ID   *int64  `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// EventListResponse contains events.
type EventListResponse struct {
	Events []api.Event `json:"events"`
}

// FileUpload is one file of an upload batch. Content rides the JSON codec
// as base64.
type FileUpload struct {
	Name               string  `json:"name"`
	Type               int     `json:"type"`
	OriginalFilename   string  `json:"originalFilename"`
	Content            []byte  `json:"content"`
	InstrumentationIDs []int64 `json:"instrumentationIds"`
	TransposeFrom      int64   `json:"transposeFrom,omitempty"`
}

// FileUploadRequest stores an all-or-nothing batch of files.
type FileUploadRequest struct {
	Files []FileUpload `json:"files"`
}

// FileUploadResponse contains the stored files.
type FileUploadResponse struct {
	Files []api.File `json:"files"`
}

// FileListRequest filters files by exact field match.
type FileListRequest struct {
	HashID   *string `json:"hashId,omitempty"`
	Name     *string `json:"name,omitempty"`
	Format   *string `json:"format,omitempty"`
	Filename *string `json:"filename,omitempty"`
	Type     *int    `json:"type,omitempty"`
}

// FileListResponse contains file metadata.
type FileListResponse struct {
	Files []api.File `json:"files"`
}

// FileRequest addresses one file by hash.
type FileRequest struct {
	HashID string `json:"hashId"`
}

// FileResponse wraps one file's metadata.
type FileResponse struct {
	File api.File `json:"file"`
}

// FileDownloadResponse carries a file's metadata and content.
type FileDownloadResponse struct {
	File    api.File `json:"file"`
	Content []byte   `json:"content"`
}

// FileDeleteRequest removes files by hash.
type FileDeleteRequest struct {
	HashIDs []string `json:"hashIds"`
}
