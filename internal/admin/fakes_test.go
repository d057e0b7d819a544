package admin

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/vistara-fest/backend/internal/apiclient"
	"github.com/vistara-fest/backend/internal/models"
)

var errNetwork = errors.New("dial tcp: connection refused")

type fakeAPI struct {
	password string

	content       models.Content
	events        []models.Event
	team          []models.TeamMember
	registrations []models.Registration

	savedContent []models.Content
	savedEvents  [][]models.Event
	savedTeam    [][]models.TeamMember
	verified     []string
	teamLists    int

	loginErr, saveErr, listErr, verifyErr, uploadErr error
	uploadStarted                                    chan struct{}
	uploadRelease                                    chan struct{}
}

func (f *fakeAPI) Login(_ context.Context, password string) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if password != f.password {
		return "", &apiclient.APIError{Status: 401, Message: "invalid password"}
	}
	return "tok", nil
}

func (f *fakeAPI) GetContent(context.Context) (models.Content, error) {
	return f.content, f.listErr
}

func (f *fakeAPI) SaveContent(_ context.Context, c models.Content) error {
	f.savedContent = append(f.savedContent, c.Clone())
	if f.saveErr != nil {
		return f.saveErr
	}
	f.content = c.Clone()
	return nil
}

func (f *fakeAPI) ListEvents(context.Context) ([]models.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Event{}, f.events...), nil
}

func (f *fakeAPI) SaveEvents(_ context.Context, events []models.Event) error {
	f.savedEvents = append(f.savedEvents, append([]models.Event{}, events...))
	if f.saveErr != nil {
		return f.saveErr
	}
	f.events = append([]models.Event{}, events...)
	return nil
}

func (f *fakeAPI) ListTeam(context.Context) ([]models.TeamMember, error) {
	f.teamLists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.TeamMember{}, f.team...), nil
}

// SaveTeam stores the roster and assigns server ids the way the API does.
func (f *fakeAPI) SaveTeam(_ context.Context, members []models.TeamMember) error {
	f.savedTeam = append(f.savedTeam, append([]models.TeamMember{}, members...))
	if f.saveErr != nil {
		return f.saveErr
	}
	stored := make([]models.TeamMember, len(members))
	for i, m := range members {
		if m.ID == "" {
			m.ID = "srv-" + m.Name
		}
		stored[i] = m
	}
	f.team = stored
	return nil
}

func (f *fakeAPI) ListRegistrations(context.Context) ([]models.Registration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Registration{}, f.registrations...), nil
}

func (f *fakeAPI) VerifyRegistration(_ context.Context, id string, _ bool) error {
	f.verified = append(f.verified, id)
	return f.verifyErr
}

func (f *fakeAPI) Upload(ctx context.Context, folder, filename string, r io.Reader) (models.MediaAsset, error) {
	if f.uploadStarted != nil {
		close(f.uploadStarted)
		select {
		case <-f.uploadRelease:
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
	}
	if f.uploadErr != nil {
		return models.MediaAsset{}, f.uploadErr
	}
	_, _ = io.ReadAll(r)
	return models.NewMediaAsset("https://cdn.example.com/" + folder + "/" + filename), nil
}

type toast struct{ title, description string }

type fakeUI struct {
	confirm  bool
	confirms []string
	alerts   []string
	toasts   []toast
}

func (u *fakeUI) Confirm(msg string) bool {
	u.confirms = append(u.confirms, msg)
	return u.confirm
}

func (u *fakeUI) Alert(msg string) { u.alerts = append(u.alerts, msg) }

func (u *fakeUI) Toast(title, description string) {
	u.toasts = append(u.toasts, toast{title, description})
}

func newTestPanel(api *fakeAPI) (*Panel, *fakeUI) {
	ui := &fakeUI{confirm: true}
	p := New(api, ui, nil)
	p.now = func() time.Time { return time.UnixMilli(1767225600000) }
	return p, ui
}
