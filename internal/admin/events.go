package admin

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
)

// PlaceholderEventImage is used for new events saved without an image.
var PlaceholderEventImage = models.MediaAsset{
	URL:  "https://images.unsplash.com/photo-1514525253440-b393452e8d03?q=80&w=2070&auto=format&fit=crop",
	Type: models.MediaImage,
}

// emptyEvent starts new events on manual pricing; editableEvent treats a missing flag as a pass event.
func emptyEvent() models.Event {
	pass := false
	return models.Event{
		ParticipationType: models.ParticipationSolo,
		IsPassEvent:       &pass,
		TicketTiers:       []string{},
		Rules:             []string{},
		MaxSlots:          models.DefaultMaxSlots,
	}
}

// editableEvent fills the defaults an older stored event may lack.
func editableEvent(e models.Event) models.Event {
	d := e.Clone()
	if d.TicketTiers == nil {
		d.TicketTiers = []string{}
	}
	if d.Rules == nil {
		d.Rules = []string{}
	}
	if d.MaxSlots <= 0 {
		d.MaxSlots = models.DefaultMaxSlots
	}
	if d.RegisteredCount < 0 {
		d.RegisteredCount = 0
	}
	if d.IsPassEvent == nil {
		pass := true
		d.IsPassEvent = &pass
	}
	return d
}

// NewEvent starts a draft for a new event.
func (p *Panel) NewEvent() {
	p.state.EventMode = Creating
	p.state.EventDraft = emptyEvent()
	p.state.editingID = ""
}

// EditEvent starts a draft from the stored event with id.
func (p *Panel) EditEvent(id string) error {
	for _, e := range p.state.Events {
		if e.ID == id {
			p.state.EventMode = Editing
			p.state.EventDraft = editableEvent(e)
			p.state.editingID = id
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
}

// CancelEvent drops the draft.
func (p *Panel) CancelEvent() {
	p.state.EventMode = Browsing
	p.state.EventDraft = models.Event{}
	p.state.editingID = ""
}

// EventDraft returns the draft for field edits.
func (p *Panel) EventDraft() *models.Event {
	return &p.state.EventDraft
}

// SetParticipationType switches the draft between solo and team entry. Solo events carry no team size.
func (p *Panel) SetParticipationType(t models.ParticipationType) error {
	if t != models.ParticipationSolo && t != models.ParticipationTeam {
		return fmt.Errorf("%w: participation type %q", ErrValidation, t)
	}
	p.state.EventDraft.ParticipationType = t
	if t == models.ParticipationSolo {
		p.state.EventDraft.TeamSize = ""
	}
	return nil
}

// ToggleTicketTier adds tier to the draft, or removes it when present.
func (p *Panel) ToggleTicketTier(tier string) {
	p.state.EventDraft.TicketTiers = toggle(p.state.EventDraft.TicketTiers, tier)
}

func toggle(list []string, v string) []string {
	out := make([]string, 0, len(list)+1)
	found := false
	for _, s := range list {
		if s == v {
			found = true
			continue
		}
		out = append(out, s)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

// AddRule appends a rule to the draft. Blank text is ignored.
func (p *Panel) AddRule(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	p.state.EventDraft.Rules = append(p.state.EventDraft.Rules, text)
}

// RemoveRule removes the rule at index.
func (p *Panel) RemoveRule(index int) {
	rules := p.state.EventDraft.Rules
	if index < 0 || index >= len(rules) {
		return
	}
	next := make([]string, 0, len(rules)-1)
	next = append(next, rules[:index]...)
	p.state.EventDraft.Rules = append(next, rules[index+1:]...)
}

// SaveEvent validates the draft, merges it into the collection and writes the whole
// collection. The panel returns to browsing even when the write fails.
func (p *Panel) SaveEvent(ctx context.Context) error {
	draft := p.state.EventDraft.Clone()
	draft.Title = strings.TrimSpace(draft.Title)
	if draft.Title == "" || strings.TrimSpace(draft.Description) == "" {
		p.ui.Alert("Please fill in all required fields (Title, Description)")
		return ErrValidation
	}
	if draft.ParticipationType == models.ParticipationSolo {
		draft.TeamSize = ""
	} else if strings.TrimSpace(draft.TeamSize) != "" {
		if _, _, err := models.ParseTeamSize(draft.TeamSize); err != nil {
			p.ui.Alert("Team size must be a number like 4 or a range like 3-12")
			return ErrValidation
		}
	}

	next := make([]models.Event, 0, len(p.state.Events)+1)
	if p.state.EventMode == Editing {
		draft.ID = p.state.editingID
		for _, e := range p.state.Events {
			if e.ID == draft.ID {
				if draft.Image == nil || !draft.Image.IsSet() {
					draft.Image = e.Image
				}
				e = draft
			}
			next = append(next, e)
		}
	} else {
		draft.ID = p.newEventID()
		if draft.Image == nil || !draft.Image.IsSet() {
			img := PlaceholderEventImage
			draft.Image = &img
		}
		next = append(next, p.state.Events...)
		next = append(next, draft)
	}

	p.state.Events = next
	p.CancelEvent()
	if err := p.api.SaveEvents(ctx, next); err != nil {
		p.logger.Error("save events failed", zap.Error(err))
		p.ui.Alert("Error saving events: " + errorMessage(err))
		return err
	}
	p.ui.Alert("Event Saved Successfully!")
	return nil
}

// newEventID is the current time in milliseconds, moved forward past any id already in use.
func (p *Panel) newEventID() string {
	ms := p.now().UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if !p.hasEvent(id) {
			return id
		}
		ms++
	}
}

func (p *Panel) hasEvent(id string) bool {
	for _, e := range p.state.Events {
		if e.ID == id {
			return true
		}
	}
	return false
}

// DeleteEvent removes the event with id after confirmation and writes the collection.
func (p *Panel) DeleteEvent(ctx context.Context, id string) error {
	if !p.hasEvent(id) {
		return fmt.Errorf("event %s: %w", id, models.ErrNotFound)
	}
	if !p.ui.Confirm("Are you sure you want to delete this event?") {
		return ErrCancelled
	}
	next := make([]models.Event, 0, len(p.state.Events))
	for _, e := range p.state.Events {
		if e.ID != id {
			next = append(next, e)
		}
	}
	p.state.Events = next
	if err := p.api.SaveEvents(ctx, next); err != nil {
		p.logger.Error("save events failed", zap.Error(err))
		p.ui.Alert("Error saving events: " + errorMessage(err))
		return err
	}
	return nil
}
