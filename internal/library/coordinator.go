package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"scorevault/internal/assets"
	"scorevault/internal/catalog"
	"scorevault/internal/hashid"
	"scorevault/internal/logging"
	"scorevault/internal/textutil"
)

// Coordinator orchestrates multi-step operations spanning the catalog store
// and the asset store.
type Coordinator struct {
	store  *catalog.Store
	assets *assets.Store
	codec  *hashid.Codec
	logger *slog.Logger
	locks  *nameLocks
}

// NewCoordinator wires the coordinator from its collaborators.
func NewCoordinator(store *catalog.Store, assetStore *assets.Store, codec *hashid.Codec, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		store:  store,
		assets: assetStore,
		codec:  codec,
		logger: logger.With(logging.String(logging.FieldComponent, "library")),
		locks:  newNameLocks(),
	}
}

// PieceRequest carries the fields for creating or updating a piece.
type PieceRequest struct {
	Name            string
	Author          string
	Lyricist        string
	Arranger        string
	Opus            int64
	Type            int
	CopyrightExpire *time.Time
	GroupIDs        []int64
	InstrumentIDs   []int64
}

// Upload carries one file of an upload batch.
type Upload struct {
	Name               string
	Type               int
	OriginalFilename   string
	Content            []byte
	InstrumentationIDs []int64
	TransposeFrom      int64
}

// CreatePiece provisions the piece directory first, then inserts the row and
// its associations. The directory is the uniqueness authority: a taken name
// aborts before any row is written. A failed insert removes the fresh
// directory again.
func (c *Coordinator) CreatePiece(ctx context.Context, req PieceRequest) (*catalog.Piece, error) {
	dirName := textutil.SanitizeFileName(req.Name)
	if dirName == "" {
		return nil, Wrap(ErrValidation, "create piece", "name is required", nil)
	}
	unlock := c.locks.lock(dirName)
	defer unlock()

	created, err := c.assets.CreatePieceDir(dirName)
	if err != nil {
		return nil, Wrap(ErrInternal, "create piece", "create directory", err)
	}
	if !created {
		return nil, Wrap(ErrConflict, "create piece", fmt.Sprintf("piece %q already exists", req.Name), nil)
	}

	piece := &catalog.Piece{
		Name:            req.Name,
		Author:          req.Author,
		Lyricist:        req.Lyricist,
		Arranger:        req.Arranger,
		Opus:            req.Opus,
		Type:            req.Type,
		CopyrightExpire: req.CopyrightExpire,
	}
	if err := c.store.CreatePiece(ctx, piece, req.GroupIDs, req.InstrumentIDs); err != nil {
		if _, cleanupErr := c.assets.DeletePieceDir(dirName); cleanupErr != nil {
			c.logger.Warn("orphan piece directory left after failed insert",
				logging.String("dir", dirName), logging.Error(cleanupErr))
		}
		return nil, Wrap(ErrInternal, "create piece", "insert row", err)
	}
	c.logger.Info("piece created",
		logging.Int64(logging.FieldPieceID, piece.ID), logging.String("dir", dirName))
	return piece, nil
}

// UpdatePiece applies new fields to a piece. When the sanitized name
// changes, the directory is renamed before the row is updated; a failed row
// update renames the directory back.
func (c *Coordinator) UpdatePiece(ctx context.Context, id int64, req PieceRequest) (*catalog.Piece, error) {
	existing, err := c.store.GetPiece(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, Wrap(ErrNotFound, "update piece", fmt.Sprintf("piece %d", id), nil)
	}
	if err != nil {
		return nil, Wrap(ErrInternal, "update piece", "load row", err)
	}

	newDir := textutil.SanitizeFileName(req.Name)
	if newDir == "" {
		return nil, Wrap(ErrValidation, "update piece", "name is required", nil)
	}
	oldDir := textutil.SanitizeFileName(existing.Name)

	unlock := c.locks.lockAll(oldDir, newDir)
	defer unlock()

	renamed := false
	if oldDir != newDir {
		ok, err := c.assets.RenamePieceDir(oldDir, newDir)
		if err != nil {
			return nil, Wrap(ErrInternal, "update piece", "rename directory", err)
		}
		if !ok {
			taken, err := c.assets.PieceExists(newDir)
			if err != nil {
				return nil, Wrap(ErrInternal, "update piece", "check target directory", err)
			}
			if taken {
				return nil, Wrap(ErrConflict, "update piece", fmt.Sprintf("piece %q already exists", req.Name), nil)
			}
			// Source directory is missing; recreate under the new name so
			// row and disk line up again.
			if _, err := c.assets.CreatePieceDir(newDir); err != nil {
				return nil, Wrap(ErrInternal, "update piece", "recreate directory", err)
			}
		}
		renamed = ok
	}

	updated := &catalog.Piece{
		ID:              id,
		Name:            req.Name,
		Author:          req.Author,
		Lyricist:        req.Lyricist,
		Arranger:        req.Arranger,
		Opus:            req.Opus,
		Type:            req.Type,
		CopyrightExpire: req.CopyrightExpire,
		CreatedAt:       existing.CreatedAt,
	}
	if err := c.store.UpdatePiece(ctx, updated, req.GroupIDs, req.InstrumentIDs); err != nil {
		if renamed {
			if _, undoErr := c.assets.RenamePieceDir(newDir, oldDir); undoErr != nil {
				c.logger.Warn("directory rename left unmatched after failed update",
					logging.Int64(logging.FieldPieceID, id), logging.Error(undoErr))
			}
		}
		return nil, Wrap(ErrInternal, "update piece", "update row", err)
	}
	c.logger.Info("piece updated", logging.Int64(logging.FieldPieceID, id))
	return updated, nil
}

// DeletePiece removes a piece: all descendant rows are deleted and committed
// first, then the directory is removed. A directory already gone is not an
// error.
func (c *Coordinator) DeletePiece(ctx context.Context, id int64) error {
	piece, err := c.store.GetPiece(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return Wrap(ErrNotFound, "delete piece", fmt.Sprintf("piece %d", id), nil)
	}
	if err != nil {
		return Wrap(ErrInternal, "delete piece", "load row", err)
	}
	dirName := textutil.SanitizeFileName(piece.Name)
	unlock := c.locks.lock(dirName)
	defer unlock()

	if _, err := c.store.DeletePieceCascade(ctx, id); err != nil {
		return Wrap(ErrInternal, "delete piece", "delete rows", err)
	}
	if _, err := c.assets.DeletePieceDir(dirName); err != nil {
		return Wrap(ErrInternal, "delete piece", "remove directory", err)
	}
	c.logger.Info("piece deleted", logging.Int64(logging.FieldPieceID, id), logging.String("dir", dirName))
	return nil
}

// DeletePieces removes several pieces. Every id is validated before the
// first deletion so an unknown id fails the request without side effects.
func (c *Coordinator) DeletePieces(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		if _, err := c.store.GetPiece(ctx, id); errors.Is(err, catalog.ErrNotFound) {
			return Wrap(ErrNotFound, "delete pieces", fmt.Sprintf("piece %d", id), nil)
		} else if err != nil {
			return Wrap(ErrInternal, "delete pieces", "load row", err)
		}
	}
	for _, id := range ids {
		if err := c.DeletePiece(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// UploadFiles stores a batch of files. The batch is all-or-nothing: a
// duplicate filename or I/O failure rolls back every row and disk write made
// earlier in the same batch before reporting the error.
func (c *Coordinator) UploadFiles(ctx context.Context, uploads []Upload) ([]*catalog.File, error) {
	if len(uploads) == 0 {
		return nil, Wrap(ErrValidation, "upload files", "empty batch", nil)
	}

	type pending struct {
		upload  Upload
		format  string
		dirName string
	}
	batch := make([]pending, 0, len(uploads))
	dirNames := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		if strings.TrimSpace(upload.Name) == "" {
			return nil, Wrap(ErrValidation, "upload files", "file name is required", nil)
		}
		if len(upload.InstrumentationIDs) == 0 {
			return nil, Wrap(ErrValidation, "upload files", "at least one instrumentation is required", nil)
		}
		format := strings.ToLower(strings.TrimPrefix(filepath.Ext(upload.OriginalFilename), "."))
		if format == "" {
			return nil, Wrap(ErrValidation, "upload files",
				fmt.Sprintf("cannot derive format from %q", upload.OriginalFilename), nil)
		}

		inst, err := c.store.GetInstrumentation(ctx, upload.InstrumentationIDs[0])
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, Wrap(ErrNotFound, "upload files",
				fmt.Sprintf("instrumentation %d", upload.InstrumentationIDs[0]), nil)
		}
		if err != nil {
			return nil, Wrap(ErrInternal, "upload files", "load instrumentation", err)
		}
		piece, err := c.store.GetPiece(ctx, inst.PieceID)
		if err != nil {
			return nil, Wrap(ErrInternal, "upload files", "load owning piece", err)
		}
		dirName := textutil.SanitizeFileName(piece.Name)
		batch = append(batch, pending{upload: upload, format: format, dirName: dirName})
		dirNames = append(dirNames, dirName)
	}

	unlock := c.locks.lockAll(dirNames...)
	defer unlock()

	var committed []*catalog.File
	committedDirs := make([]string, 0, len(batch))
	rollback := func() {
		for i := len(committed) - 1; i >= 0; i-- {
			file := committed[i]
			if err := c.store.DeleteFileCascade(ctx, file.ID); err != nil {
				c.logger.Warn("rollback left file row behind",
					logging.String(logging.FieldFileHash, file.HashID), logging.Error(err))
			}
			if _, err := c.assets.DeleteFile(committedDirs[i], file.Filename); err != nil {
				c.logger.Warn("rollback left disk file behind",
					logging.String(logging.FieldFileHash, file.HashID), logging.Error(err))
			}
		}
	}

	for _, item := range batch {
		sanitizedName := textutil.SanitizeFileName(item.upload.Name)
		file := &catalog.File{
			Name:   item.upload.Name,
			Type:   item.upload.Type,
			Format: item.format,
		}
		_, err := c.store.CreateFile(ctx, file, item.upload.InstrumentationIDs, item.upload.TransposeFrom,
			func(id int64) (string, string, error) {
				hash, err := c.codec.Encode(id)
				if err != nil {
					return "", "", err
				}
				named := *file
				named.Name = sanitizedName
				named.HashID = hash
				return hash, assets.FileName(&named), nil
			})
		if err != nil {
			rollback()
			return nil, Wrap(ErrInternal, "upload files", "insert row", err)
		}

		// The filename embeds the fresh per-row hash, so an exact-name
		// check cannot spot a logical re-upload. Match on the
		// name/type/format triple instead, after the insert so the row
		// rolls back on conflict like every other late failure.
		duplicate, err := c.assets.HasVariant(item.dirName, sanitizedName, file.Type, file.Format)
		if err != nil {
			if delErr := c.store.DeleteFileCascade(ctx, file.ID); delErr != nil {
				c.logger.Warn("file row left behind after failed duplicate check",
					logging.String(logging.FieldFileHash, file.HashID), logging.Error(delErr))
			}
			rollback()
			return nil, Wrap(ErrInternal, "upload files", "duplicate check", err)
		}
		if duplicate {
			if delErr := c.store.DeleteFileCascade(ctx, file.ID); delErr != nil {
				c.logger.Warn("file row left behind after duplicate",
					logging.String(logging.FieldFileHash, file.HashID), logging.Error(delErr))
			}
			rollback()
			return nil, Wrap(ErrConflict, "upload files",
				fmt.Sprintf("file %q (type %d) already exists", item.upload.Name, item.upload.Type), nil)
		}

		saved, err := c.assets.SaveFile(item.dirName, file.Filename, item.upload.Content)
		if err != nil {
			if delErr := c.store.DeleteFileCascade(ctx, file.ID); delErr != nil {
				c.logger.Warn("file row left behind after failed write",
					logging.String(logging.FieldFileHash, file.HashID), logging.Error(delErr))
			}
			rollback()
			return nil, Wrap(ErrInternal, "upload files", "write bytes", err)
		}
		if !saved {
			if delErr := c.store.DeleteFileCascade(ctx, file.ID); delErr != nil {
				c.logger.Warn("file row left behind after duplicate",
					logging.String(logging.FieldFileHash, file.HashID), logging.Error(delErr))
			}
			rollback()
			return nil, Wrap(ErrConflict, "upload files",
				fmt.Sprintf("file %q already exists", file.Filename), nil)
		}
		committed = append(committed, file)
		committedDirs = append(committedDirs, item.dirName)
		c.logger.Info("file stored",
			logging.String(logging.FieldFileHash, file.HashID),
			logging.String("filename", file.Filename),
			logging.Int("bytes", len(item.upload.Content)))
	}
	return committed, nil
}

// DeleteFile removes a file addressed by its public hash. The row is deleted
// and committed before the disk file is touched; a disk file already gone
// still counts as success.
func (c *Coordinator) DeleteFile(ctx context.Context, hashID string) error {
	file, err := c.store.GetFileByHash(ctx, hashID)
	if errors.Is(err, catalog.ErrNotFound) {
		return Wrap(ErrNotFound, "delete file", fmt.Sprintf("file %s", hashID), nil)
	}
	if err != nil {
		return Wrap(ErrInternal, "delete file", "load row", err)
	}
	piece, err := c.store.PieceForFile(ctx, file.ID)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		return Wrap(ErrInternal, "delete file", "load owning piece", err)
	}

	dirName := ""
	if piece != nil {
		dirName = textutil.SanitizeFileName(piece.Name)
		unlock := c.locks.lock(dirName)
		defer unlock()
	}

	if err := c.store.DeleteFileCascade(ctx, file.ID); err != nil {
		return Wrap(ErrInternal, "delete file", "delete row", err)
	}
	if dirName != "" {
		if _, err := c.assets.DeleteFile(dirName, file.Filename); err != nil {
			return Wrap(ErrInternal, "delete file", "remove bytes", err)
		}
	}
	c.logger.Info("file deleted", logging.String(logging.FieldFileHash, hashID))
	return nil
}

// ReadFile returns a file's row and content, addressed by its public hash.
func (c *Coordinator) ReadFile(ctx context.Context, hashID string) (*catalog.File, []byte, error) {
	file, err := c.store.GetFileByHash(ctx, hashID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, nil, Wrap(ErrNotFound, "read file", fmt.Sprintf("file %s", hashID), nil)
	}
	if err != nil {
		return nil, nil, Wrap(ErrInternal, "read file", "load row", err)
	}
	piece, err := c.store.PieceForFile(ctx, file.ID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, nil, Wrap(ErrNotFound, "read file", fmt.Sprintf("no piece owns file %s", hashID), nil)
	}
	if err != nil {
		return nil, nil, Wrap(ErrInternal, "read file", "load owning piece", err)
	}
	data, err := c.assets.ReadFile(textutil.SanitizeFileName(piece.Name), file.Filename)
	if err != nil {
		return nil, nil, Wrap(ErrNotFound, "read file", fmt.Sprintf("content for file %s", hashID), err)
	}
	return file, data, nil
}
