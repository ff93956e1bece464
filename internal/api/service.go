package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scorevault/internal/catalog"
	"scorevault/internal/config"
	"scorevault/internal/library"
)

// Service is the catalog façade consumed by the IPC surface. Reference-data
// CRUD goes straight to the store; anything touching the filesystem goes
// through the coordinator.
type Service struct {
	cfg         *config.Config
	store       *catalog.Store
	coordinator *library.Coordinator
}

// NewService wires the service from its collaborators.
func NewService(cfg *config.Config, store *catalog.Store, coordinator *library.Coordinator) *Service {
	return &Service{cfg: cfg, store: store, coordinator: coordinator}
}

// ParseDate parses a date-only field such as copyright expiry. An empty
// string yields nil.
func ParseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFormat, value)
	if err != nil {
		return nil, library.Wrap(library.ErrValidation, "parse date", fmt.Sprintf("invalid date %q", value), nil)
	}
	return &t, nil
}

func mapStoreErr(err error, operation, what string) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return library.Wrap(library.ErrNotFound, operation, what, nil)
	}
	return library.Wrap(library.ErrInternal, operation, what, err)
}

// CreateGroup creates an ensemble.
func (s *Service) CreateGroup(ctx context.Context, name string) (Group, error) {
	if name == "" {
		return Group{}, library.Wrap(library.ErrValidation, "create group", "name is required", nil)
	}
	group, err := s.store.CreateGroup(ctx, name)
	if err != nil {
		return Group{}, mapStoreErr(err, "create group", name)
	}
	return FromGroup(group), nil
}

// GetGroup fetches one group.
func (s *Service) GetGroup(ctx context.Context, id int64) (Group, error) {
	group, err := s.store.GetGroup(ctx, id)
	if err != nil {
		return Group{}, mapStoreErr(err, "get group", fmt.Sprintf("group %d", id))
	}
	return FromGroup(group), nil
}

// ListGroups returns groups matching the filter.
func (s *Service) ListGroups(ctx context.Context, filter catalog.GroupFilter) ([]Group, error) {
	groups, err := s.store.FindGroups(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err, "list groups", "")
	}
	return FromGroups(groups), nil
}

// UpdateGroup renames a group.
func (s *Service) UpdateGroup(ctx context.Context, id int64, name string) (Group, error) {
	if name == "" {
		return Group{}, library.Wrap(library.ErrValidation, "update group", "name is required", nil)
	}
	group := &catalog.Group{ID: id, Name: name}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return Group{}, mapStoreErr(err, "update group", fmt.Sprintf("group %d", id))
	}
	return FromGroup(group), nil
}

// DeleteGroup removes a group.
func (s *Service) DeleteGroup(ctx context.Context, id int64) error {
	if err := s.store.DeleteGroup(ctx, id); err != nil {
		return mapStoreErr(err, "delete group", fmt.Sprintf("group %d", id))
	}
	return nil
}

// AttachPieceToGroup links a piece into a group.
func (s *Service) AttachPieceToGroup(ctx context.Context, groupID, pieceID int64) error {
	if err := s.store.AttachPieceToGroup(ctx, groupID, pieceID); err != nil {
		return mapStoreErr(err, "attach piece", fmt.Sprintf("group %d piece %d", groupID, pieceID))
	}
	return nil
}

// DetachPieceFromGroup unlinks a piece from a group.
func (s *Service) DetachPieceFromGroup(ctx context.Context, groupID, pieceID int64) error {
	if err := s.store.DetachPieceFromGroup(ctx, groupID, pieceID); err != nil {
		return mapStoreErr(err, "detach piece", fmt.Sprintf("group %d piece %d", groupID, pieceID))
	}
	return nil
}

// AttachEventToGroup links an event into a group.
func (s *Service) AttachEventToGroup(ctx context.Context, groupID, eventID int64) error {
	if err := s.store.AttachEventToGroup(ctx, groupID, eventID); err != nil {
		return mapStoreErr(err, "attach event", fmt.Sprintf("group %d event %d", groupID, eventID))
	}
	return nil
}

// DetachEventFromGroup unlinks an event from a group.
func (s *Service) DetachEventFromGroup(ctx context.Context, groupID, eventID int64) error {
	if err := s.store.DetachEventFromGroup(ctx, groupID, eventID); err != nil {
		return mapStoreErr(err, "detach event", fmt.Sprintf("group %d event %d", groupID, eventID))
	}
	return nil
}

// CreatePart creates a section within a group.
func (s *Service) CreatePart(ctx context.Context, name string, groupID int64) (Part, error) {
	if name == "" {
		return Part{}, library.Wrap(library.ErrValidation, "create part", "name is required", nil)
	}
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return Part{}, mapStoreErr(err, "create part", fmt.Sprintf("group %d", groupID))
	}
	part, err := s.store.CreatePart(ctx, name, groupID)
	if err != nil {
		return Part{}, mapStoreErr(err, "create part", name)
	}
	return FromPart(part), nil
}

// GetPart fetches one part.
func (s *Service) GetPart(ctx context.Context, id int64) (Part, error) {
	part, err := s.store.GetPart(ctx, id)
	if err != nil {
		return Part{}, mapStoreErr(err, "get part", fmt.Sprintf("part %d", id))
	}
	return FromPart(part), nil
}

// ListParts returns parts matching the filter.
func (s *Service) ListParts(ctx context.Context, filter catalog.PartFilter) ([]Part, error) {
	parts, err := s.store.FindParts(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err, "list parts", "")
	}
	return FromParts(parts), nil
}

// UpdatePart replaces a part's name and owning group.
func (s *Service) UpdatePart(ctx context.Context, id int64, name string, groupID int64) (Part, error) {
	if name == "" {
		return Part{}, library.Wrap(library.ErrValidation, "update part", "name is required", nil)
	}
	part := &catalog.Part{ID: id, Name: name, GroupID: groupID}
	if err := s.store.UpdatePart(ctx, part); err != nil {
		return Part{}, mapStoreErr(err, "update part", fmt.Sprintf("part %d", id))
	}
	return FromPart(part), nil
}

// DeletePart removes a part.
func (s *Service) DeletePart(ctx context.Context, id int64) error {
	if err := s.store.DeletePart(ctx, id); err != nil {
		return mapStoreErr(err, "delete part", fmt.Sprintf("part %d", id))
	}
	return nil
}

// CreateInstrument creates an instrument within a part.
func (s *Service) CreateInstrument(ctx context.Context, name string, partID int64) (Instrument, error) {
	if name == "" {
		return Instrument{}, library.Wrap(library.ErrValidation, "create instrument", "name is required", nil)
	}
	if _, err := s.store.GetPart(ctx, partID); err != nil {
		return Instrument{}, mapStoreErr(err, "create instrument", fmt.Sprintf("part %d", partID))
	}
	instrument, err := s.store.CreateInstrument(ctx, name, partID)
	if err != nil {
		return Instrument{}, mapStoreErr(err, "create instrument", name)
	}
	return FromInstrument(instrument), nil
}

// GetInstrument fetches one instrument.
func (s *Service) GetInstrument(ctx context.Context, id int64) (Instrument, error) {
	instrument, err := s.store.GetInstrument(ctx, id)
	if err != nil {
		return Instrument{}, mapStoreErr(err, "get instrument", fmt.Sprintf("instrument %d", id))
	}
	return FromInstrument(instrument), nil
}

// ListInstruments returns instruments matching the filter.
func (s *Service) ListInstruments(ctx context.Context, filter catalog.InstrumentFilter) ([]Instrument, error) {
	instruments, err := s.store.FindInstruments(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err, "list instruments", "")
	}
	return FromInstruments(instruments), nil
}

// UpdateInstrument replaces an instrument's name and owning part.
func (s *Service) UpdateInstrument(ctx context.Context, id int64, name string, partID int64) (Instrument, error) {
	if name == "" {
		return Instrument{}, library.Wrap(library.ErrValidation, "update instrument", "name is required", nil)
	}
	instrument := &catalog.Instrument{ID: id, Name: name, PartID: partID}
	if err := s.store.UpdateInstrument(ctx, instrument); err != nil {
		return Instrument{}, mapStoreErr(err, "update instrument", fmt.Sprintf("instrument %d", id))
	}
	return FromInstrument(instrument), nil
}

// DeleteInstrument removes an instrument.
func (s *Service) DeleteInstrument(ctx context.Context, id int64) error {
	if err := s.store.DeleteInstrument(ctx, id); err != nil {
		return mapStoreErr(err, "delete instrument", fmt.Sprintf("instrument %d", id))
	}
	return nil
}

// CreatePiece provisions a piece directory and row via the coordinator.
func (s *Service) CreatePiece(ctx context.Context, req library.PieceRequest) (Piece, error) {
	piece, err := s.coordinator.CreatePiece(ctx, req)
	if err != nil {
		return Piece{}, err
	}
	return s.loadPiece(ctx, piece)
}

// GetPiece fetches one piece with its associations.
func (s *Service) GetPiece(ctx context.Context, id int64) (Piece, error) {
	piece, err := s.store.GetPiece(ctx, id)
	if err != nil {
		return Piece{}, mapStoreErr(err, "get piece", fmt.Sprintf("piece %d", id))
	}
	return s.loadPiece(ctx, piece)
}

// ListPieces returns pieces matching the filter, with associations.
func (s *Service) ListPieces(ctx context.Context, filter catalog.PieceFilter) ([]Piece, error) {
	pieces, err := s.store.FindPieces(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err, "list pieces", "")
	}
	out := make([]Piece, 0, len(pieces))
	for _, piece := range pieces {
		dto, err := s.loadPiece(ctx, piece)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// UpdatePiece applies new fields via the coordinator, renaming the
// directory when the name changed.
func (s *Service) UpdatePiece(ctx context.Context, id int64, req library.PieceRequest) (Piece, error) {
	piece, err := s.coordinator.UpdatePiece(ctx, id, req)
	if err != nil {
		return Piece{}, err
	}
	return s.loadPiece(ctx, piece)
}

// DeletePieces removes pieces and their directories.
func (s *Service) DeletePieces(ctx context.Context, ids []int64) error {
	return s.coordinator.DeletePieces(ctx, ids)
}

// AddInstrumentation scores a piece for an instrument.
func (s *Service) AddInstrumentation(ctx context.Context, pieceID, instrumentID int64) (Instrumentation, error) {
	if _, err := s.store.GetPiece(ctx, pieceID); err != nil {
		return Instrumentation{}, mapStoreErr(err, "add instrumentation", fmt.Sprintf("piece %d", pieceID))
	}
	if _, err := s.store.GetInstrument(ctx, instrumentID); err != nil {
		return Instrumentation{}, mapStoreErr(err, "add instrumentation", fmt.Sprintf("instrument %d", instrumentID))
	}
	inst, err := s.store.AddInstrumentation(ctx, pieceID, instrumentID)
	if err != nil {
		return Instrumentation{}, mapStoreErr(err, "add instrumentation", "")
	}
	return FromInstrumentation(inst), nil
}

// RemoveInstrumentation deletes an instrumentation.
func (s *Service) RemoveInstrumentation(ctx context.Context, id int64) error {
	if err := s.store.RemoveInstrumentation(ctx, id); err != nil {
		return mapStoreErr(err, "remove instrumentation", fmt.Sprintf("instrumentation %d", id))
	}
	return nil
}

// CreateEvent creates a performance with its ordered program.
func (s *Service) CreateEvent(ctx context.Context, name string, program []catalog.PieceRef) (Event, error) {
	if name == "" {
		return Event{}, library.Wrap(library.ErrValidation, "create event", "name is required", nil)
	}
	for _, ref := range program {
		if _, err := s.store.GetPiece(ctx, ref.PieceID); err != nil {
			return Event{}, mapStoreErr(err, "create event", fmt.Sprintf("piece %d", ref.PieceID))
		}
	}
	event, err := s.store.CreateEvent(ctx, name, program)
	if err != nil {
		return Event{}, mapStoreErr(err, "create event", name)
	}
	return s.loadEvent(ctx, event)
}

// GetEvent fetches one event with its program.
func (s *Service) GetEvent(ctx context.Context, id int64) (Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return Event{}, mapStoreErr(err, "get event", fmt.Sprintf("event %d", id))
	}
	return s.loadEvent(ctx, event)
}

// ListEvents returns events matching the filter, with programs.
func (s *Service) ListEvents(ctx context.Context, filter catalog.EventFilter) ([]Event, error) {
	events, err := s.store.FindEvents(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err, "list events", "")
	}
	out := make([]Event, 0, len(events))
	for _, event := range events {
		dto, err := s.loadEvent(ctx, event)
		if err != nil {
			return nil, err
		}
		out = append(out, dto)
	}
	return out, nil
}

// UpdateEvent renames an event and, when program is non-nil, replaces its
// program.
func (s *Service) UpdateEvent(ctx context.Context, id int64, name string, program []catalog.PieceRef) (Event, error) {
	if name == "" {
		return Event{}, library.Wrap(library.ErrValidation, "update event", "name is required", nil)
	}
	event := &catalog.Event{ID: id, Name: name}
	if err := s.store.UpdateEvent(ctx, event, program); err != nil {
		return Event{}, mapStoreErr(err, "update event", fmt.Sprintf("event %d", id))
	}
	return s.loadEvent(ctx, event)
}

// DeleteEvent removes an event, its program rows, and its group links.
// Referenced pieces are untouched.
func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.store.DeleteEventCascade(ctx, id); err != nil {
		return mapStoreErr(err, "delete event", fmt.Sprintf("event %d", id))
	}
	return nil
}

// UploadFiles stores an all-or-nothing batch of files.
func (s *Service) UploadFiles(ctx context.Context, uploads []library.Upload) ([]File, error) {
	files, err := s.coordinator.UploadFiles(ctx, uploads)
	if err != nil {
		return nil, err
	}
	out := make([]File, 0, len(files))
	for _, file := range files {
		transpose, err := s.store.FileTranspose(ctx, file.ID)
		if err != nil {
			return nil, mapStoreErr(err, "upload files", "load transpose")
		}
		out = append(out, FromFile(file, transpose))
	}
	return out, nil
}

// GetFile fetches file metadata by hash.
func (s *Service) GetFile(ctx context.Context, hashID string) (File, error) {
	file, err := s.store.GetFileByHash(ctx, hashID)
	if err != nil {
		return File{}, mapStoreErr(err, "get file", fmt.Sprintf("file %s", hashID))
	}
	transpose, err := s.store.FileTranspose(ctx, file.ID)
	if err != nil {
		return File{}, mapStoreErr(err, "get file", "load transpose")
	}
	return FromFile(file, transpose), nil
}

// ListFiles returns file metadata matching the filter.
func (s *Service) ListFiles(ctx context.Context, filter catalog.FileFilter) ([]File, error) {
	files, err := s.store.FindFiles(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err, "list files", "")
	}
	out := make([]File, 0, len(files))
	for _, file := range files {
		transpose, err := s.store.FileTranspose(ctx, file.ID)
		if err != nil {
			return nil, mapStoreErr(err, "list files", "load transpose")
		}
		out = append(out, FromFile(file, transpose))
	}
	return out, nil
}

// DownloadFile returns a file's metadata and content by hash.
func (s *Service) DownloadFile(ctx context.Context, hashID string) (File, []byte, error) {
	file, data, err := s.coordinator.ReadFile(ctx, hashID)
	if err != nil {
		return File{}, nil, err
	}
	transpose, err := s.store.FileTranspose(ctx, file.ID)
	if err != nil {
		return File{}, nil, mapStoreErr(err, "download file", "load transpose")
	}
	return FromFile(file, transpose), data, nil
}

// UpdateFile is refused: stored files are immutable. Replacing content
// means deleting the file and uploading a new one, which issues a fresh
// hash.
func (s *Service) UpdateFile(ctx context.Context, hashID string) error {
	return library.Wrap(library.ErrForbidden, "update file",
		fmt.Sprintf("file %s is immutable; delete it and upload a replacement", hashID), nil)
}

// DeleteFiles removes files by hash, row first, then disk.
func (s *Service) DeleteFiles(ctx context.Context, hashIDs []string) error {
	for _, hashID := range hashIDs {
		if _, err := s.store.GetFileByHash(ctx, hashID); err != nil {
			return mapStoreErr(err, "delete files", fmt.Sprintf("file %s", hashID))
		}
	}
	for _, hashID := range hashIDs {
		if err := s.coordinator.DeleteFile(ctx, hashID); err != nil {
			return err
		}
	}
	return nil
}

// Info aggregates the full group/part/instrument taxonomy together with
// library-wide counts and paths.
func (s *Service) Info(ctx context.Context) (Info, error) {
	groups, err := s.store.FindGroups(ctx, catalog.GroupFilter{})
	if err != nil {
		return Info{}, mapStoreErr(err, "info", "groups")
	}
	parts, err := s.store.FindParts(ctx, catalog.PartFilter{})
	if err != nil {
		return Info{}, mapStoreErr(err, "info", "parts")
	}
	instruments, err := s.store.FindInstruments(ctx, catalog.InstrumentFilter{})
	if err != nil {
		return Info{}, mapStoreErr(err, "info", "instruments")
	}
	counts, err := s.store.Stats(ctx)
	if err != nil {
		return Info{}, mapStoreErr(err, "info", "count rows")
	}
	return Info{
		LibraryDir:   s.cfg.LibraryDir,
		DatabasePath: s.cfg.DatabasePath,
		Groups:       FromGroups(groups),
		Parts:        FromParts(parts),
		Instruments:  FromInstruments(instruments),
		Counts:       counts,
	}, nil
}

func (s *Service) loadPiece(ctx context.Context, piece *catalog.Piece) (Piece, error) {
	groups, err := s.store.PieceGroups(ctx, piece.ID)
	if err != nil {
		return Piece{}, mapStoreErr(err, "load piece", "groups")
	}
	insts, err := s.store.PieceInstrumentations(ctx, piece.ID)
	if err != nil {
		return Piece{}, mapStoreErr(err, "load piece", "instrumentations")
	}
	return FromPiece(piece, groups, insts), nil
}

func (s *Service) loadEvent(ctx context.Context, event *catalog.Event) (Event, error) {
	program, err := s.store.EventPieces(ctx, event.ID)
	if err != nil {
		return Event{}, mapStoreErr(err, "load event", "program")
	}
	groups, err := s.store.EventGroups(ctx, event.ID)
	if err != nil {
		return Event{}, mapStoreErr(err, "load event", "groups")
	}
	return FromEvent(event, program, groups), nil
}
