package upload

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/pkg/response"
	"github.com/vistara-fest/backend/pkg/storage"
)

// ObjectStore is the storage the handler writes to; *storage.S3 implements it.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error)
}

// Handler handles POST /upload for admin media and registration proofs.
type Handler struct {
	store    ObjectStore
	maxBytes int64
	logger   *zap.Logger
}

// NewHandler creates an upload handler. store may be nil when storage is not configured.
func NewHandler(store ObjectStore, maxBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, maxBytes: maxBytes, logger: logger}
}

// Upload handles POST /upload (multipart: file, folder). The response data is a media asset.
func (h *Handler) Upload(c *gin.Context) {
	if h.store == nil {
		response.ServiceUnavailable(c, "file storage is not configured")
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			response.TooLarge(c, "file too large")
			return
		}
		response.BadRequest(c, "invalid multipart form")
		return
	}
	folder := c.Request.FormValue("folder")
	if !storage.ValidFolder(folder) {
		response.BadRequest(c, "invalid folder")
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > h.maxBytes {
		response.TooLarge(c, "file too large")
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !storage.ValidateMediaFile(contentType, fh.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}
	ext := storage.ExtensionFor(contentType, fh.Filename)
	if ext == "" {
		response.BadRequest(c, "unsupported file type")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error("open upload failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}
	defer f.Close()

	key := storage.MediaKey(folder, ext)
	url, err := h.store.Upload(c.Request.Context(), key, storage.ContentTypeForExtension(ext), f, fh.Size)
	if err != nil {
		h.logger.Error("upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "upload failed")
		return
	}
	h.logger.Info("file uploaded", zap.String("folder", folder), zap.String("key", key), zap.Int64("size", fh.Size))
	asset := models.NewMediaAsset(url)
	asset.PublicID = key
	response.OK(c, asset)
}
