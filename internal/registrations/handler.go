package registrations

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/pkg/queue"
	"github.com/vistara-fest/backend/pkg/response"
)

// EventSlots is the part of the events store used when registering.
type EventSlots interface {
	Get(ctx context.Context, id string) (*models.Event, error)
	ReserveSlot(ctx context.Context, id string) error
	ReleaseSlot(ctx context.Context, id string) error
}

// SubmitRequest is the body for POST /registrations, as sent by the public form.
type SubmitRequest struct {
	Email                string                   `json:"email" binding:"required,email"`
	EventID              string                   `json:"eventId"`
	EventName            string                   `json:"eventName"`
	ParticipationType    models.ParticipationType `json:"participationType"`
	Name                 string                   `json:"name"`
	Phone                string                   `json:"phone"`
	College              string                   `json:"college"`
	Department           string                   `json:"department"`
	Degree               string                   `json:"degree"`
	Course               string                   `json:"course"`
	Year                 string                   `json:"year"`
	IDCardURL            string                   `json:"idCardUrl"`
	TeamName             string                   `json:"teamName"`
	TeamMembers          []models.TeamMate        `json:"teamMembers"`
	TeamLeaderIDCardURL  string                   `json:"teamLeaderIdCardUrl"`
	PaymentScreenshotURL string                   `json:"paymentScreenshotUrl"`
}

// VerifyRequest is the body for POST /admin/verify-registration. IsActive defaults to true.
type VerifyRequest struct {
	RegistrationID string `json:"registrationId" binding:"required"`
	IsActive       *bool  `json:"isActive"`
}

// Handler handles registration HTTP endpoints.
type Handler struct {
	store  Store
	events EventSlots
	jobs   queue.Enqueuer
	logger *zap.Logger
}

// NewHandler creates a registrations handler. jobs may be nil to skip notifications.
func NewHandler(store Store, events EventSlots, jobs queue.Enqueuer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, events: events, jobs: jobs, logger: logger}
}

// Submit handles POST /registrations. A slot on the named event is reserved first and given
// back if the registration cannot be stored.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && invalid[0].Field() == "Email" {
			response.BadRequest(c, "a valid email is required")
			return
		}
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	reg := req.toRegistration()
	ctx := c.Request.Context()

	var event *models.Event
	if reg.EventID != "" {
		e, err := h.events.Get(ctx, reg.EventID)
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		if err != nil {
			h.logger.Error("get event failed", zap.Error(err), zap.String("event_id", reg.EventID))
			response.Internal(c, "failed to register")
			return
		}
		event = e
		if reg.EventName == "" || reg.EventName == models.DefaultEventName {
			reg.EventName = e.Title
		}
	}
	if msg := validate(reg, event); msg != "" {
		response.BadRequest(c, msg)
		return
	}

	if event != nil {
		if err := h.events.ReserveSlot(ctx, event.ID); err != nil {
			switch {
			case errors.Is(err, models.ErrEventFull):
				response.Conflict(c, "registrations for this event are full")
			case errors.Is(err, models.ErrNotFound):
				response.NotFound(c, "event not found")
			default:
				h.logger.Error("reserve slot failed", zap.Error(err), zap.String("event_id", event.ID))
				response.Internal(c, "failed to register")
			}
			return
		}
	}
	if err := h.store.Create(ctx, reg); err != nil {
		h.logger.Error("create registration failed", zap.Error(err), zap.String("event_id", reg.EventID))
		if event != nil {
			if relErr := h.events.ReleaseSlot(ctx, event.ID); relErr != nil {
				h.logger.Error("release slot failed", zap.Error(relErr), zap.String("event_id", event.ID))
			}
		}
		response.Internal(c, "failed to register")
		return
	}

	payload := payloadFor(reg)
	h.enqueue(ctx, queue.JobTypeRegistrationAlert, payload)
	h.enqueue(ctx, queue.JobTypeSheetsAppend, payload)
	h.logger.Info("registration created", zap.String("registration_id", reg.ID), zap.String("event_id", reg.EventID))
	response.Created(c, reg)
}

// List handles GET /admin/registrations.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "failed to load registrations")
		return
	}
	response.OK(c, list)
}

// Get handles GET /admin/registrations/:id.
func (h *Handler) Get(c *gin.Context) {
	reg, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		response.NotFound(c, "registration not found")
		return
	}
	if err != nil {
		h.logger.Error("get registration failed", zap.Error(err))
		response.Internal(c, "failed to load registration")
		return
	}
	response.OK(c, reg)
}

// Verify handles POST /admin/verify-registration. The first transition to active
// queues the confirmation email and the spreadsheet update.
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	ctx := c.Request.Context()
	reg, was, err := h.store.SetActive(ctx, req.RegistrationID, active)
	if errors.Is(err, models.ErrNotFound) {
		response.NotFound(c, "registration not found")
		return
	}
	if err != nil {
		h.logger.Error("verify registration failed", zap.Error(err), zap.String("registration_id", req.RegistrationID))
		response.Internal(c, "failed to update registration")
		return
	}
	if active && !was {
		payload := payloadFor(reg)
		h.enqueue(ctx, queue.JobTypeVerifiedEmail, payload)
		h.enqueue(ctx, queue.JobTypeSheetsMarkVerified, payload)
	}
	h.logger.Info("registration verification set", zap.String("registration_id", reg.ID), zap.Bool("is_active", active))
	response.OK(c, reg)
}

func (h *Handler) enqueue(ctx context.Context, jobType queue.JobType, payload queue.RegistrationPayload) {
	if h.jobs == nil {
		return
	}
	if err := h.jobs.Enqueue(ctx, jobType, payload); err != nil {
		h.logger.Warn("enqueue job failed", zap.Error(err), zap.String("type", string(jobType)),
			zap.String("registration_id", payload.RegistrationID))
	}
}

func (r SubmitRequest) toRegistration() *models.Registration {
	reg := &models.Registration{
		EventID:              strings.TrimSpace(r.EventID),
		EventName:            strings.TrimSpace(r.EventName),
		ParticipationType:    r.ParticipationType,
		Name:                 strings.TrimSpace(r.Name),
		Phone:                strings.TrimSpace(r.Phone),
		Email:                strings.TrimSpace(r.Email),
		College:              strings.TrimSpace(r.College),
		Department:           strings.TrimSpace(r.Department),
		Degree:               strings.TrimSpace(r.Degree),
		Course:               strings.TrimSpace(r.Course),
		Year:                 strings.TrimSpace(r.Year),
		IDCardURL:            strings.TrimSpace(r.IDCardURL),
		TeamName:             strings.TrimSpace(r.TeamName),
		TeamLeaderIDCardURL:  strings.TrimSpace(r.TeamLeaderIDCardURL),
		PaymentScreenshotURL: strings.TrimSpace(r.PaymentScreenshotURL),
	}
	if reg.EventName == "" {
		reg.EventName = models.DefaultEventName
	}
	if reg.ParticipationType == "" {
		reg.ParticipationType = models.ParticipationSolo
	}
	if reg.ParticipationType == models.ParticipationTeam {
		for _, m := range r.TeamMembers {
			reg.TeamMembers = append(reg.TeamMembers, models.TeamMate{
				Name:  strings.TrimSpace(m.Name),
				Phone: strings.TrimSpace(m.Phone),
			})
		}
	}
	return reg
}

// validate returns a user-facing message for the first problem found, or "".
func validate(reg *models.Registration, event *models.Event) string {
	common := []string{reg.College, reg.Department, reg.Degree, reg.Course, reg.Year, reg.PaymentScreenshotURL}
	switch reg.ParticipationType {
	case models.ParticipationSolo:
		if event != nil && event.ParticipationType == models.ParticipationTeam {
			return "this event requires a team registration"
		}
		if anyEmpty(append(common, reg.Name, reg.Phone, reg.IDCardURL)...) {
			return "Please fill all required fields for solo registration"
		}
	case models.ParticipationTeam:
		if event != nil && event.ParticipationType != models.ParticipationTeam {
			return "this event does not accept team registrations"
		}
		if anyEmpty(append(common, reg.TeamName, reg.TeamLeaderIDCardURL)...) {
			return "Please fill all required team fields"
		}
		if len(reg.TeamMembers) == 0 {
			return "at least one team member is required"
		}
		for _, m := range reg.TeamMembers {
			if m.Name == "" || m.Phone == "" {
				return "every team member needs a name and phone"
			}
		}
		limit := models.DefaultMaxTeamSize
		if event != nil {
			limit = event.MaxTeamSize()
		}
		if len(reg.TeamMembers) > limit {
			return "too many team members for this event"
		}
	default:
		return "participationType must be Solo or Team"
	}
	return ""
}

func anyEmpty(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return true
		}
	}
	return false
}

func payloadFor(reg *models.Registration) queue.RegistrationPayload {
	return queue.RegistrationPayload{
		RegistrationID:    reg.ID,
		EventID:           reg.EventID,
		EventName:         reg.EventName,
		ParticipationType: string(reg.ParticipationType),
		Name:              reg.DisplayName(),
		TeamName:          reg.TeamName,
		TeamSize:          len(reg.TeamMembers),
		Email:             reg.Email,
		Phone:             reg.Phone,
		College:           reg.College,
		Year:              reg.Year,
		PaymentProofURL:   reg.PaymentScreenshotURL,
		CreatedAt:         reg.CreatedAt,
	}
}
