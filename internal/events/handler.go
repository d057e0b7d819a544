package events

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/pkg/cache"
	"github.com/vistara-fest/backend/pkg/response"
)

// UpdateRequest is the body for POST /events/update: the complete, ordered collection.
type UpdateRequest struct {
	Events []models.Event `json:"events"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	store  Store
	cache  *cache.Cache
	logger *zap.Logger
}

// NewHandler creates an events handler. cache may be nil.
func NewHandler(store Store, c *cache.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, cache: c, logger: logger}
}

// List handles GET /events.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var list []models.Event
	if h.cache.Get(ctx, cache.KeyEvents, &list) {
		response.OK(c, list)
		return
	}
	list, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err))
		response.Internal(c, "failed to load events")
		return
	}
	h.cache.Set(ctx, cache.KeyEvents, list)
	response.OK(c, list)
}

// Update handles POST /events/update. The stored collection is replaced by the submitted one.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Events == nil {
		response.BadRequest(c, "events is required")
		return
	}
	list, err := prepare(req.Events)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	if err := h.store.ReplaceAll(ctx, list); err != nil {
		h.logger.Error("replace events failed", zap.Error(err), zap.Int("count", len(list)))
		response.Internal(c, "failed to save events")
		return
	}
	h.cache.Invalidate(ctx, cache.KeyEvents)
	h.logger.Info("events replaced", zap.Int("count", len(list)))
	response.OK(c, list)
}

// prepare validates the collection and fills defaults on a copy.
func prepare(in []models.Event) ([]models.Event, error) {
	seen := make(map[string]bool, len(in))
	out := make([]models.Event, 0, len(in))
	for i, e := range in {
		e = e.Clone()
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			return nil, fmt.Errorf("event %d: id is required", i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate event id %q", e.ID)
		}
		seen[e.ID] = true
		switch e.ParticipationType {
		case "", models.ParticipationSolo:
			e.ParticipationType = models.ParticipationSolo
		case models.ParticipationTeam:
			if strings.TrimSpace(e.TeamSize) != "" {
				if _, _, err := models.ParseTeamSize(e.TeamSize); err != nil {
					return nil, fmt.Errorf("event %q: %w", e.ID, err)
				}
			}
		default:
			return nil, fmt.Errorf("event %q: unknown participation type %q", e.ID, e.ParticipationType)
		}
		if e.MaxSlots < 0 || e.RegisteredCount < 0 {
			return nil, fmt.Errorf("event %q: counts must not be negative", e.ID)
		}
		e.Image = models.NormalizeMediaPtr(e.Image)
		if e.TicketTiers == nil {
			e.TicketTiers = []string{}
		}
		if e.Rules == nil {
			e.Rules = []string{}
		}
		out = append(out, e)
	}
	return out, nil
}
