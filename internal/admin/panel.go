// Package admin is the controller behind the admin panel. It owns the panel state, applies each
// operation to it and synchronises the result with the festival API.
//
// Content and event saves keep the local change when the API call fails. Registration
// verification restores the previous state instead. Team changes always re-read the roster.
package admin

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/apiclient"
	"github.com/vistara-fest/backend/internal/models"
)

var (
	// ErrValidation is returned when a draft fails its checks. No API call is made.
	ErrValidation = errors.New("validation failed")
	// ErrNoIdentity is returned when a team member has neither a server nor a local id.
	ErrNoIdentity = errors.New("team member has no identity")
	// ErrCancelled is returned when the operator declines a confirmation.
	ErrCancelled = errors.New("cancelled")
)

// API is the subset of the festival API the panel uses.
type API interface {
	Login(ctx context.Context, password string) (string, error)
	GetContent(ctx context.Context) (models.Content, error)
	SaveContent(ctx context.Context, content models.Content) error
	ListEvents(ctx context.Context) ([]models.Event, error)
	SaveEvents(ctx context.Context, events []models.Event) error
	ListTeam(ctx context.Context) ([]models.TeamMember, error)
	SaveTeam(ctx context.Context, members []models.TeamMember) error
	ListRegistrations(ctx context.Context) ([]models.Registration, error)
	VerifyRegistration(ctx context.Context, id string, active bool) error
	Upload(ctx context.Context, folder, filename string, r io.Reader) (models.MediaAsset, error)
}

// UI is how the panel talks to the operator. Alert blocks until acknowledged; Toast does not.
type UI interface {
	Confirm(message string) bool
	Alert(message string)
	Toast(title, description string)
}

// Mode is the state of a draft buffer.
type Mode int

const (
	Browsing Mode = iota
	Creating
	Editing
)

func (m Mode) String() string {
	switch m {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	default:
		return "browsing"
	}
}

// State is everything the panel shows. It is a possibly stale copy of the stored data.
type State struct {
	Authenticated bool
	Password      string

	Content models.Content
	Events  []models.Event
	Team    []models.TeamMember

	Registrations []models.Registration
	Selected      *models.Registration
	Filter        string

	EventMode  Mode
	EventDraft models.Event
	editingID  string

	MemberMode   Mode
	MemberDraft  models.TeamMember
	editingIdent string
}

// Panel is the admin controller. Operations are expected to run one at a time, except
// Upload which may run alongside anything else.
type Panel struct {
	api    API
	ui     UI
	logger *zap.Logger
	now    func() time.Time

	state State

	mu        sync.Mutex
	uploading map[string]bool
}

// New creates a panel in the browsing state with the "all" registrations filter.
func New(api API, ui UI, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Panel{
		api:       api,
		ui:        ui,
		logger:    logger,
		now:       time.Now,
		state:     State{Filter: FilterSummary, Registrations: []models.Registration{}},
		uploading: make(map[string]bool),
	}
}

// State returns the current panel state. Slices are shared; callers must not modify them.
func (p *Panel) State() *State {
	return &p.state
}

// SetPassword sets the password field of the login form.
func (p *Panel) SetPassword(password string) {
	p.state.Password = password
}

// Login checks the password with the API and loads the dashboard on success.
func (p *Panel) Login(ctx context.Context) error {
	if p.state.Password == "" {
		p.ui.Toast("Identity Verification Required", "Please enter your access password")
		return ErrValidation
	}
	if _, err := p.api.Login(ctx, p.state.Password); err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			p.logger.Warn("admin login rejected", zap.Int("status", apiErr.Status))
			p.ui.Toast("Authentication Failed", "Incorrect security credentials provided")
			p.state.Password = ""
			return err
		}
		p.logger.Error("admin login failed", zap.Error(err))
		p.ui.Toast("System Timeout", "Communication with security server lost")
		return err
	}
	p.state.Authenticated = true
	p.state.Password = ""
	p.ui.Toast("Access Authenticated", "Decrypting dashboard systems...")
	p.Load(ctx)
	return nil
}

// Load fetches content, events, team and registrations. Failures are logged and leave the
// affected part of the state as it was, except registrations which become empty.
func (p *Panel) Load(ctx context.Context) {
	if c, err := p.api.GetContent(ctx); err != nil {
		p.logger.Error("load content failed", zap.Error(err))
	} else {
		p.state.Content = c
	}
	if list, err := p.api.ListEvents(ctx); err != nil {
		p.logger.Error("load events failed", zap.Error(err))
	} else {
		p.state.Events = list
	}
	p.refreshTeam(ctx)
	p.LoadRegistrations(ctx)
}

// errorMessage is the text shown to the operator for a failed call.
func errorMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Server Error"
	}
	return err.Error()
}
