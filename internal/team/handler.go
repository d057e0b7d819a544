package team

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/pkg/cache"
	"github.com/vistara-fest/backend/pkg/response"
)

// UpdateRequest is the body for POST /team/update.
type UpdateRequest struct {
	TeamMembers []models.TeamMember `json:"teamMembers"`
}

// Handler handles team roster HTTP endpoints.
type Handler struct {
	store  Store
	cache  *cache.Cache
	logger *zap.Logger
}

// NewHandler creates a team handler. cache may be nil.
func NewHandler(store Store, c *cache.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, cache: c, logger: logger}
}

// List handles GET /team.
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var list []models.TeamMember
	if h.cache.Get(ctx, cache.KeyTeam, &list) {
		response.OK(c, list)
		return
	}
	list, err := h.store.List(ctx)
	if err != nil {
		h.logger.Error("list team failed", zap.Error(err))
		response.Internal(c, "failed to load team")
		return
	}
	h.cache.Set(ctx, cache.KeyTeam, list)
	response.OK(c, list)
}

// Update handles POST /team/update and returns the stored roster.
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.TeamMembers == nil {
		response.BadRequest(c, "teamMembers is required")
		return
	}
	members := make([]models.TeamMember, 0, len(req.TeamMembers))
	seen := make(map[string]int, len(req.TeamMembers))
	for i, m := range req.TeamMembers {
		m = m.Clone()
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			response.BadRequest(c, fmt.Sprintf("team member %d: name is required", i))
			return
		}
		if id, ok := m.Identity(); ok {
			if first, dup := seen[id]; dup {
				response.BadRequest(c, fmt.Sprintf("team member %d: duplicate id %q (also member %d)", i, id, first))
				return
			}
			seen[id] = i
		}
		if m.Category == "" {
			m.Category = models.CategoryVolunteers
		}
		m.Image = models.NormalizeMediaPtr(m.Image)
		members = append(members, m)
	}
	ctx := c.Request.Context()
	saved, err := h.store.ReplaceAll(ctx, members)
	if err != nil {
		h.logger.Error("replace team failed", zap.Error(err), zap.Int("count", len(members)))
		response.Internal(c, "failed to save team")
		return
	}
	h.cache.Invalidate(ctx, cache.KeyTeam)
	h.logger.Info("team replaced", zap.Int("count", len(saved)))
	response.OK(c, saved)
}
