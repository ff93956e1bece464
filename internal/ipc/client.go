package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves daemon runtime information.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Scorevault.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shutdown asks the daemon process to exit.
func (c *Client) Shutdown() (*ShutdownResponse, error) {
	var resp ShutdownResponse
	if err := c.client.Call("Scorevault.Shutdown", ShutdownRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Info retrieves the library info aggregate.
func (c *Client) Info() (*InfoResponse, error) {
	var resp InfoResponse
	if err := c.client.Call("Scorevault.Info", InfoRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupCreate creates a group.
func (c *Client) GroupCreate(name string) (*GroupResponse, error) {
	var resp GroupResponse
	if err := c.client.Call("Scorevault.GroupCreate", NameRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupGet fetches one group.
func (c *Client) GroupGet(id int64) (*GroupResponse, error) {
	var resp GroupResponse
	if err := c.client.Call("Scorevault.GroupGet", IDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupList returns groups matching the filter.
func (c *Client) GroupList(req GroupListRequest) (*GroupListResponse, error) {
	var resp GroupListResponse
	if err := c.client.Call("Scorevault.GroupList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupUpdate renames a group.
func (c *Client) GroupUpdate(id int64, name string) (*GroupResponse, error) {
	var resp GroupResponse
	if err := c.client.Call("Scorevault.GroupUpdate", NameRequest{ID: id, Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupDelete removes a group.
func (c *Client) GroupDelete(id int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.GroupDelete", IDRequest{ID: id}, &resp)
}

// GroupAttachPiece links a piece into a group.
func (c *Client) GroupAttachPiece(groupID, pieceID int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.GroupAttachPiece",
		GroupLinkRequest{GroupID: groupID, TargetID: pieceID}, &resp)
}

// GroupDetachPiece unlinks a piece from a group.
func (c *Client) GroupDetachPiece(groupID, pieceID int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.GroupDetachPiece",
		GroupLinkRequest{GroupID: groupID, TargetID: pieceID}, &resp)
}

// GroupAttachEvent links an event into a group.
func (c *Client) GroupAttachEvent(groupID, eventID int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.GroupAttachEvent",
		GroupLinkRequest{GroupID: groupID, TargetID: eventID}, &resp)
}

// GroupDetachEvent unlinks an event from a group.
func (c *Client) GroupDetachEvent(groupID, eventID int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.GroupDetachEvent",
		GroupLinkRequest{GroupID: groupID, TargetID: eventID}, &resp)
}

// PartCreate creates a part.
func (c *Client) PartCreate(name string, groupID int64) (*PartResponse, error) {
	var resp PartResponse
	if err := c.client.Call("Scorevault.PartCreate", PartRequest{Name: name, GroupID: groupID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PartGet fetches one part.
func (c *Client) PartGet(id int64) (*PartResponse, error) {
	var resp PartResponse
	if err := c.client.Call("Scorevault.PartGet", IDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PartList returns parts matching the filter.
func (c *Client) PartList(req PartListRequest) (*PartListResponse, error) {
	var resp PartListResponse
	if err := c.client.Call("Scorevault.PartList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PartUpdate replaces a part's fields.
func (c *Client) PartUpdate(id int64, name string, groupID int64) (*PartResponse, error) {
	var resp PartResponse
	if err := c.client.Call("Scorevault.PartUpdate",
		PartRequest{ID: id, Name: name, GroupID: groupID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PartDelete removes a part.
func (c *Client) PartDelete(id int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.PartDelete", IDRequest{ID: id}, &resp)
}

// InstrumentCreate creates an instrument.
func (c *Client) InstrumentCreate(name string, partID int64) (*InstrumentResponse, error) {
	var resp InstrumentResponse
	if err := c.client.Call("Scorevault.InstrumentCreate",
		InstrumentRequest{Name: name, PartID: partID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InstrumentGet fetches one instrument.
func (c *Client) InstrumentGet(id int64) (*InstrumentResponse, error) {
	var resp InstrumentResponse
	if err := c.client.Call("Scorevault.InstrumentGet", IDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InstrumentList returns instruments matching the filter.
func (c *Client) InstrumentList(req InstrumentListRequest) (*InstrumentListResponse, error) {
	var resp InstrumentListResponse
	if err := c.client.Call("Scorevault.InstrumentList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InstrumentUpdate replaces an instrument's fields.
func (c *Client) InstrumentUpdate(id int64, name string, partID int64) (*InstrumentResponse, error) {
	var resp InstrumentResponse
	if err := c.client.Call("Scorevault.InstrumentUpdate",
		InstrumentRequest{ID: id, Name: name, PartID: partID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InstrumentDelete removes an instrument.
func (c *Client) InstrumentDelete(id int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.InstrumentDelete", IDRequest{ID: id}, &resp)
}

// PieceCreate creates a piece and its directory.
func (c *Client) PieceCreate(req PieceRequest) (*PieceResponse, error) {
	var resp PieceResponse
	if err := c.client.Call("Scorevault.PieceCreate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PieceGet fetches one piece.
func (c *Client) PieceGet(id int64) (*PieceResponse, error) {
	var resp PieceResponse
	if err := c.client.Call("Scorevault.PieceGet", IDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PieceList returns pieces matching the filter.
func (c *Client) PieceList(req PieceListRequest) (*PieceListResponse, error) {
	var resp PieceListResponse
	if err := c.client.Call("Scorevault.PieceList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PieceUpdate applies new fields to a piece, renaming its directory when
// the name changed.
func (c *Client) PieceUpdate(req PieceRequest) (*PieceResponse, error) {
	var resp PieceResponse
	if err := c.client.Call("Scorevault.PieceUpdate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PieceDelete removes pieces and their directories.
func (c *Client) PieceDelete(ids []int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.PieceDelete", PieceDeleteRequest{IDs: ids}, &resp)
}

// InstrumentationAdd scores a piece for an instrument.
func (c *Client) InstrumentationAdd(pieceID, instrumentID int64) (*InstrumentationResponse, error) {
	var resp InstrumentationResponse
	if err := c.client.Call("Scorevault.InstrumentationAdd",
		InstrumentationRequest{PieceID: pieceID, InstrumentID: instrumentID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InstrumentationRemove deletes an instrumentation.
func (c *Client) InstrumentationRemove(id int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.InstrumentationRemove", IDRequest{ID: id}, &resp)
}

// EventCreate creates an event with its program.
func (c *Client) EventCreate(req EventRequest) (*EventResponse, error) {
	var resp EventResponse
	if err := c.client.Call("Scorevault.EventCreate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventGet fetches one event.
func (c *Client) EventGet(id int64) (*EventResponse, error) {
	var resp EventResponse
	if err := c.client.Call("Scorevault.EventGet", IDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventList returns events matching the filter.
func (c *Client) EventList(req EventListRequest) (*EventListResponse, error) {
	var resp EventListResponse
	if err := c.client.Call("Scorevault.EventList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventUpdate renames an event and optionally replaces its program.
func (c *Client) EventUpdate(req EventRequest) (*EventResponse, error) {
	var resp EventResponse
	if err := c.client.Call("Scorevault.EventUpdate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EventDelete removes an event.
func (c *Client) EventDelete(id int64) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.EventDelete", IDRequest{ID: id}, &resp)
}

// FileUpload stores an all-or-nothing batch of files.
func (c *Client) FileUpload(files []FileUpload) (*FileUploadResponse, error) {
	var resp FileUploadResponse
	if err := c.client.Call("Scorevault.FileUpload", FileUploadRequest{Files: files}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FileGet fetches file metadata by hash.
func (c *Client) FileGet(hashID string) (*FileResponse, error) {
	var resp FileResponse
	if err := c.client.Call("Scorevault.FileGet", FileRequest{HashID: hashID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FileList returns file metadata matching the filter.
func (c *Client) FileList(req FileListRequest) (*FileListResponse, error) {
	var resp FileListResponse
	if err := c.client.Call("Scorevault.FileList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FileDownload returns a file's metadata and content.
func (c *Client) FileDownload(hashID string) (*FileDownloadResponse, error) {
	var resp FileDownloadResponse
	if err := c.client.Call("Scorevault.FileDownload", FileRequest{HashID: hashID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FileDelete removes files by hash.
func (c *Client) FileDelete(hashIDs []string) error {
	var resp EmptyResponse
	return c.client.Call("Scorevault.FileDelete", FileDeleteRequest{HashIDs: hashIDs}, &resp)
}
