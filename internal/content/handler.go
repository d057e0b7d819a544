package content

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/pkg/cache"
	"github.com/vistara-fest/backend/pkg/response"
)

// UpdateRequest is the body for POST /content/update. The whole document is replaced.
type UpdateRequest struct {
	Content *models.Content `json:"content" binding:"required"`
}

// Handler handles site content HTTP endpoints.
type Handler struct {
	store  Store
	cache  *cache.Cache
	logger *zap.Logger
}

// NewHandler creates a content handler. cache may be nil.
func NewHandler(store Store, c *cache.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, cache: c, logger: logger}
}

// Get handles GET /content. Before the first save an empty document is returned.
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	var doc models.Content
	if h.cache.Get(ctx, cache.KeyContent, &doc) {
		response.OK(c, doc)
		return
	}
	stored, err := h.store.Get(ctx)
	switch {
	case errors.Is(err, models.ErrNotFound):
		doc = models.Content{GalleryImages: []models.MediaAsset{}}
	case err != nil:
		h.logger.Error("get content failed", zap.Error(err))
		response.Internal(c, "failed to load content")
		return
	default:
		doc = *stored
	}
	h.cache.Set(ctx, cache.KeyContent, doc)
	response.OK(c, doc)
}

// Update handles POST /content/update. Media fields are normalized before storage.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	doc := req.Content.Normalized()
	for tier, price := range map[string]int{
		models.TierDiamond: doc.TicketPrices.Diamond,
		models.TierGold:    doc.TicketPrices.Gold,
		models.TierSilver:  doc.TicketPrices.Silver,
	} {
		if price < 0 {
			response.BadRequest(c, "ticket price for "+tier+" must not be negative")
			return
		}
	}
	ctx := c.Request.Context()
	if err := h.store.Save(ctx, doc); err != nil {
		h.logger.Error("save content failed", zap.Error(err))
		response.Internal(c, "failed to save content")
		return
	}
	h.cache.Invalidate(ctx, cache.KeyContent)
	h.logger.Info("content updated", zap.Int("gallery_images", len(doc.GalleryImages)))
	response.OK(c, doc)
}
