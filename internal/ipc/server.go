package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"github.com/google/uuid"

	"scorevault/internal/api"
	"scorevault/internal/catalog"
	"scorevault/internal/daemon"
	"scorevault/internal/library"
	"scorevault/internal/logging"
)

// Server exposes the catalog service via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, svc *api.Service, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("ipc server requires service")
	}
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	handler := &service{api: svc, daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Scorevault", handler); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path), logging.Error(err))
	}
}

type service struct {
	api    *api.Service
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

// reqCtx tags each RPC call with a fresh correlation id so log lines from
// one request can be tied together.
func (s *service) reqCtx() context.Context {
	return logging.WithCorrelationID(s.ctx, uuid.NewString())
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.reqCtx())
	resp.Running = status.Running
	resp.PID = status.PID
	resp.DatabasePath = status.DatabasePath
	resp.LibraryDir = status.LibraryDir
	resp.SocketPath = status.SocketPath
	resp.LockPath = status.LockFilePath
	resp.Counts = status.Counts
	return nil
}

func (s *service) Shutdown(_ ShutdownRequest, resp *ShutdownResponse) error {
	s.logger.Info("shutdown requested via IPC")
	s.daemon.RequestShutdown()
	resp.Stopping = true
	return nil
}

func (s *service) Info(_ InfoRequest, resp *InfoResponse) error {
	info, err := s.api.Info(s.reqCtx())
	if err != nil {
		return err
	}
	resp.Info = info
	return nil
}

func (s *service) GroupCreate(req NameRequest, resp *GroupResponse) error {
	group, err := s.api.CreateGroup(s.reqCtx(), req.Name)
	if err != nil {
		return err
	}
	resp.Group = group
	return nil
}

func (s *service) GroupGet(req IDRequest, resp *GroupResponse) error {
	group, err := s.api.GetGroup(s.reqCtx(), req.ID)
	if err != nil {
		return err
	}
	resp.Group = group
	return nil
}

func (s *service) GroupList(req GroupListRequest, resp *GroupListResponse) error {
	groups, err := s.api.ListGroups(s.reqCtx(), catalog.GroupFilter{ID: req.ID, Name: req.Name})
	if err != nil {
		return err
	}
	resp.Groups = groups
	return nil
}

func (s *service) GroupUpdate(req NameRequest, resp *GroupResponse) error {
	group, err := s.api.UpdateGroup(s.reqCtx(), req.ID, req.Name)
	if err != nil {
		return err
	}
	resp.Group = group
	return nil
}

func (s *service) GroupDelete(req IDRequest, resp *EmptyResponse) error {
	return s.api.DeleteGroup(s.reqCtx(), req.ID)
}

func (s *service) GroupAttachPiece(req GroupLinkRequest, resp *EmptyResponse) error {
	return s.api.AttachPieceToGroup(s.reqCtx(), req.GroupID, req.TargetID)
}

func (s *service) GroupDetachPiece(req GroupLinkRequest, resp *EmptyResponse) error {
	return s.api.DetachPieceFromGroup(s.reqCtx(), req.GroupID, req.TargetID)
}

func (s *service) GroupAttachEvent(req GroupLinkRequest, resp *EmptyResponse) error {
	return s.api.AttachEventToGroup(s.reqCtx(), req.GroupID, req.TargetID)
}

func (s *service) GroupDetachEvent(req GroupLinkRequest, resp *EmptyResponse) error {
	return s.api.DetachEventFromGroup(s.reqCtx(), req.GroupID, req.TargetID)
}

func (s *service) PartCreate(req PartRequest, resp *PartResponse) error {
	part, err := s.api.CreatePart(s.reqCtx(), req.Name, req.GroupID)
	if err != nil {
		return err
	}
	resp.Part = part
	return nil
}

func (s *service) PartGet(req IDRequest, resp *PartResponse) error {
	part, err := s.api.GetPart(s.reqCtx(), req.ID)
	if err != nil {
		return err
	}
	resp.Part = part
	return nil
}

func (s *service) PartList(req PartListRequest, resp *PartListResponse) error {
	parts, err := s.api.ListParts(s.reqCtx(), catalog.PartFilter{ID: req.ID, Name: req.Name, GroupID: req.GroupID})
	if err != nil {
		return err
	}
	resp.Parts = parts
	return nil
}

func (s *service) PartUpdate(req PartRequest, resp *PartResponse) error {
	part, err := s.api.UpdatePart(s.reqCtx(), req.ID, req.Name, req.GroupID)
	if err != nil {
		return err
	}
	resp.Part = part
	return nil
}

func (s *service) PartDelete(req IDRequest, resp *EmptyResponse) error {
	return s.api.DeletePart(s.reqCtx(), req.ID)
}

func (s *service) InstrumentCreate(req InstrumentRequest, resp *InstrumentResponse) error {
	instrument, err := s.api.CreateInstrument(s.reqCtx(), req.Name, req.PartID)
	if err != nil {
		return err
	}
	resp.Instrument = instrument
	return nil
}

func (s *service) InstrumentGet(req IDRequest, resp *InstrumentResponse) error {
	instrument, err := s.api.GetInstrument(s.reqCtx(), req.ID)
	if err != nil {
		return err
	}
	resp.Instrument = instrument
	return nil
}

func (s *service) InstrumentList(req InstrumentListRequest, resp *InstrumentListResponse) error {
	instruments, err := s.api.ListInstruments(s.reqCtx(),
		catalog.InstrumentFilter{ID: req.ID, Name: req.Name, PartID: req.PartID})
	if err != nil {
		return err
	}
	resp.Instruments = instruments
	return nil
}

func (s *service) InstrumentUpdate(req InstrumentRequest, resp *InstrumentResponse) error {
	instrument, err := s.api.UpdateInstrument(s.reqCtx(), req.ID, req.Name, req.PartID)
	if err != nil {
		return err
	}
	resp.Instrument = instrument
	return nil
}

func (s *service) InstrumentDelete(req IDRequest, resp *EmptyResponse) error {
	return s.api.DeleteInstrument(s.reqCtx(), req.ID)
}

func (s *service) PieceCreate(req PieceRequest, resp *PieceResponse) error {
	pieceReq, err := toPieceRequest(req)
	if err != nil {
		return err
	}
	piece, err := s.api.CreatePiece(s.reqCtx(), pieceReq)
	if err != nil {
		return err
	}
	resp.Piece = piece
	return nil
}

func (s *service) PieceGet(req IDRequest, resp *PieceResponse) error {
	piece, err := s.api.GetPiece(s.reqCtx(), req.ID)
	if err != nil {
		return err
	}
	resp.Piece = piece
	return nil
}

func (s *service) PieceList(req PieceListRequest, resp *PieceListResponse) error {
	pieces, err := s.api.ListPieces(s.reqCtx(), catalog.PieceFilter{
		ID:       req.ID,
		Name:     req.Name,
		Author:   req.Author,
		Lyricist: req.Lyricist,
		Arranger: req.Arranger,
		Opus:     req.Opus,
		Type:     req.Type,
	})
	if err != nil {
		return err
	}
	resp.Pieces = pieces
	return nil
}

func (s *service) PieceUpdate(req PieceRequest, resp *PieceResponse) error {
	pieceReq, err := toPieceRequest(req)
	if err != nil {
		return err
	}
	piece, err := s.api.UpdatePiece(s.reqCtx(), req.ID, pieceReq)
	if err != nil {
		return err
	}
	resp.Piece = piece
	return nil
}

func (s *service) PieceDelete(req PieceDeleteRequest, resp *EmptyResponse) error {
	return s.api.DeletePieces(s.reqCtx(), req.IDs)
}

func (s *service) InstrumentationAdd(req InstrumentationRequest, resp *InstrumentationResponse) error {
	inst, err := s.api.AddInstrumentation(s.reqCtx(), req.PieceID, req.InstrumentID)
	if err != nil {
		return err
	}
	resp.Instrumentation = inst
	return nil
}

func (s *service) InstrumentationRemove(req IDRequest, resp *EmptyResponse) error {
	return s.api.RemoveInstrumentation(s.reqCtx(), req.ID)
}

func (s *service) EventCreate(req EventRequest, resp *EventResponse) error {
	event, err := s.api.CreateEvent(s.reqCtx(), req.Name, toProgram(req.Program))
	if err != nil {
		return err
	}
	resp.Event = event
	return nil
}

func (s *service) EventGet(req IDRequest, resp *EventResponse) error {
	event, err := s.api.GetEvent(s.reqCtx(), req.ID)
	if err != nil {
		return err
	}
	resp.Event = event
	return nil
}

func (s *service) EventList(req EventListRequest, resp *EventListResponse) error {
	events, err := s.api.ListEvents(s.reqCtx(), catalog.EventFilter{ID: req.ID, Name: req.Name})
	if err != nil {
		return err
	}
	resp.Events = events
	return nil
}

func (s *service) EventUpdate(req EventRequest, resp *EventResponse) error {
	var program []catalog.PieceRef
	if req.SetProgram {
		program = toProgram(req.Program)
		if program == nil {
			program = []catalog.PieceRef{}
		}
	}
	event, err := s.api.UpdateEvent(s.reqCtx(), req.ID, req.Name, program)
	if err != nil {
		return err
	}
	resp.Event = event
	return nil
}

func (s *service) EventDelete(req IDRequest, resp *EmptyResponse) error {
	return s.api.DeleteEvent(s.reqCtx(), req.ID)
}

func (s *service) FileUpload(req FileUploadRequest, resp *FileUploadResponse) error {
	uploads := make([]library.Upload, 0, len(req.Files))
	for _, f := range req.Files {
		uploads = append(uploads, library.Upload{
			Name:               f.Name,
			Type:               f.Type,
			OriginalFilename:   f.OriginalFilename,
			Content:            f.Content,
			InstrumentationIDs: f.InstrumentationIDs,
			TransposeFrom:      f.TransposeFrom,
		})
	}
	files, err := s.api.UploadFiles(s.reqCtx(), uploads)
	if err != nil {
		return err
	}
	resp.Files = files
	return nil
}

func (s *service) FileGet(req FileRequest, resp *FileResponse) error {
	file, err := s.api.GetFile(s.reqCtx(), req.HashID)
	if err != nil {
		return err
	}
	resp.File = file
	return nil
}

func (s *service) FileList(req FileListRequest, resp *FileListResponse) error {
	files, err := s.api.ListFiles(s.reqCtx(), catalog.FileFilter{
		HashID:   req.HashID,
		Name:     req.Name,
		Format:   req.Format,
		Filename: req.Filename,
		Type:     req.Type,
	})
	if err != nil {
		return err
	}
	resp.Files = files
	return nil
}

func (s *service) FileDownload(req FileRequest, resp *FileDownloadResponse) error {
	file, data, err := s.api.DownloadFile(s.reqCtx(), req.HashID)
	if err != nil {
		return err
	}
	resp.File = file
	resp.Content = data
	return nil
}

func (s *service) FileDelete(req FileDeleteRequest, resp *EmptyResponse) error {
	return s.api.DeleteFiles(s.reqCtx(), req.HashIDs)
}

func toPieceRequest(req PieceRequest) (library.PieceRequest, error) {
	expire, err := api.ParseDate(req.CopyrightExpireDate)
	if err != nil {
		return library.PieceRequest{}, err
	}
	return library.PieceRequest{
		Name:            req.Name,
		Author:          req.Author,
		Lyricist:        req.Lyricist,
		Arranger:        req.Arranger,
		Opus:            req.Opus,
		Type:            req.Type,
		CopyrightExpire: expire,
		GroupIDs:        req.GroupIDs,
		InstrumentIDs:   req.InstrumentIDs,
	}, nil
}

func toProgram(entries []api.ProgramEntry) []catalog.PieceRef {
	if entries == nil {
		return nil
	}
	program := make([]catalog.PieceRef, 0, len(entries))
	for _, entry := range entries {
		program = append(program, catalog.PieceRef{PieceID: entry.PieceID, Position: entry.Position})
	}
	return program
}
