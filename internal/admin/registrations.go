package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
)

// Registration filters. Any other value is an event id.
const (
	FilterSummary = "all"
	FilterAll     = "all-list"
)

// EventSummary is the registration card shown for one event.
type EventSummary struct {
	EventID  string
	Title    string
	Total    int
	Verified int
	Capacity int
}

// FillRatio is registrations over capacity.
func (s EventSummary) FillRatio() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Capacity)
}

// LoadRegistrations fetches all registrations. On failure the list is emptied.
func (p *Panel) LoadRegistrations(ctx context.Context) {
	list, err := p.api.ListRegistrations(ctx)
	if err != nil {
		p.logger.Error("load registrations failed", zap.Error(err))
		list = nil
	}
	if list == nil {
		list = []models.Registration{}
	}
	p.state.Registrations = list
}

// SetFilter selects the summary view, the full list or one event's registrations.
func (p *Panel) SetFilter(filter string) {
	if filter == "" {
		filter = FilterSummary
	}
	p.state.Filter = filter
}

// Summaries returns one card per event plus the total number of registrations.
func (p *Panel) Summaries() ([]EventSummary, int) {
	byEvent := make(map[string]*EventSummary, len(p.state.Events))
	out := make([]EventSummary, len(p.state.Events))
	for i, e := range p.state.Events {
		out[i] = EventSummary{EventID: e.ID, Title: e.Title, Capacity: e.Capacity()}
		byEvent[e.ID] = &out[i]
	}
	for _, r := range p.state.Registrations {
		s, ok := byEvent[r.EventID]
		if !ok {
			continue
		}
		s.Total++
		if r.IsActive {
			s.Verified++
		}
	}
	return out, len(p.state.Registrations)
}

// Rows returns the registrations listed under the current filter. The summary view has none.
func (p *Panel) Rows() []models.Registration {
	switch p.state.Filter {
	case FilterSummary:
		return nil
	case FilterAll:
		return p.state.Registrations
	}
	rows := make([]models.Registration, 0)
	for _, r := range p.state.Registrations {
		if r.EventID == p.state.Filter {
			rows = append(rows, r)
		}
	}
	return rows
}

// Select opens the detail view of a registration.
func (p *Panel) Select(id string) error {
	for _, r := range p.state.Registrations {
		if r.ID == id {
			sel := r
			p.state.Selected = &sel
			return nil
		}
	}
	return fmt.Errorf("registration %s: %w", id, models.ErrNotFound)
}

// CloseDetail closes the detail view.
func (p *Panel) CloseDetail() {
	p.state.Selected = nil
}

// Verify marks the registration active before asking the API to. If the call fails the
// list and the open detail view go back to exactly what they were.
func (p *Panel) Verify(ctx context.Context, id string) error {
	found := false
	for _, r := range p.state.Registrations {
		if r.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("registration %s: %w", id, models.ErrNotFound)
	}

	regs := take(&p.state.Registrations, cloneRegistrations)
	sel := take(&p.state.Selected, cloneSelected)
	err := optimistic(
		func() {
			next := cloneRegistrations(p.state.Registrations)
			for i := range next {
				if next[i].ID == id {
					next[i].IsActive = true
				}
			}
			p.state.Registrations = next
			if p.state.Selected != nil && p.state.Selected.ID == id {
				s := *p.state.Selected
				s.IsActive = true
				p.state.Selected = &s
			}
		},
		func() error { return p.api.VerifyRegistration(ctx, id, true) },
		regs, sel,
	)
	if err != nil {
		p.logger.Error("verification failed", zap.String("registration_id", id), zap.Error(err))
		p.ui.Alert("Verification failed")
		return err
	}
	p.logger.Info("registration verified", zap.String("registration_id", id))
	return nil
}

func cloneRegistrations(list []models.Registration) []models.Registration {
	if list == nil {
		return nil
	}
	return append([]models.Registration{}, list...)
}

func cloneSelected(r *models.Registration) *models.Registration {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
