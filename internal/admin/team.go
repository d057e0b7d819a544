package admin

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/internal/models"
)

// NewMember starts a draft for a new team member.
func (p *Panel) NewMember() {
	p.state.MemberMode = Creating
	p.state.MemberDraft = models.TeamMember{Category: models.CategoryVolunteers, IsActive: true}
	p.state.editingIdent = ""
}

// EditMember starts a draft from the member with the given identity.
func (p *Panel) EditMember(ident string) error {
	i := p.memberIndex(ident)
	if i < 0 {
		return fmt.Errorf("team member %s: %w", ident, models.ErrNotFound)
	}
	p.state.MemberMode = Editing
	p.state.MemberDraft = p.state.Team[i].Clone()
	p.state.editingIdent = ident
	return nil
}

// CancelMember drops the draft.
func (p *Panel) CancelMember() {
	p.state.MemberMode = Browsing
	p.state.MemberDraft = models.TeamMember{}
	p.state.editingIdent = ""
}

// MemberDraft returns the draft for field edits.
func (p *Panel) MemberDraft() *models.TeamMember {
	return &p.state.MemberDraft
}

// MemberIdentity returns the identity of the member at index, empty when it has none.
func (p *Panel) MemberIdentity(index int) string {
	if index < 0 || index >= len(p.state.Team) {
		return ""
	}
	id, _ := p.state.Team[index].Identity()
	return id
}

func (p *Panel) memberIndex(ident string) int {
	if ident == "" {
		return -1
	}
	for i, m := range p.state.Team {
		if id, ok := m.Identity(); ok && id == ident {
			return i
		}
	}
	return -1
}

// SaveMember validates the draft and writes the roster. New members go last.
func (p *Panel) SaveMember(ctx context.Context) error {
	draft := p.state.MemberDraft.Clone()
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		p.ui.Alert("Name is required!")
		return ErrValidation
	}
	draft.Image = models.NormalizeMediaPtr(draft.Image)

	next := make([]models.TeamMember, 0, len(p.state.Team)+1)
	if p.state.MemberMode == Editing {
		i := p.memberIndex(p.state.editingIdent)
		if i < 0 {
			return fmt.Errorf("team member %s: %w", p.state.editingIdent, models.ErrNotFound)
		}
		next = append(next, p.state.Team...)
		next[i] = draft
	} else {
		draft.ID, draft.LocalID = "", ""
		draft.Order = len(p.state.Team)
		next = append(next, p.state.Team...)
		next = append(next, draft)
	}

	if err := p.persistTeam(ctx, next); err != nil {
		return err
	}
	p.ui.Toast("Team Member Saved!", draft.Name+" has been added successfully.")
	p.CancelMember()
	return nil
}

// DeleteMember removes the member with ident after confirmation. A member without an
// identity has not been stored yet and cannot be matched.
func (p *Panel) DeleteMember(ctx context.Context, ident string) error {
	if ident == "" {
		p.ui.Alert("This member cannot be deleted yet. Please refresh the page and try again.")
		return ErrNoIdentity
	}
	if !p.ui.Confirm("Are you sure you want to delete this team member?") {
		return ErrCancelled
	}
	next := make([]models.TeamMember, 0, len(p.state.Team))
	for _, m := range p.state.Team {
		if id, ok := m.Identity(); ok && id == ident {
			continue
		}
		next = append(next, m)
	}
	return p.persistTeam(ctx, next)
}

// DeleteAllMembers clears the roster after confirmation.
func (p *Panel) DeleteAllMembers(ctx context.Context) error {
	if !p.ui.Confirm("ARE YOU SURE? This will delete ALL team members permanently. This action cannot be undone.") {
		return ErrCancelled
	}
	return p.persistTeam(ctx, []models.TeamMember{})
}

// ReorderMembers moves the member at from to position to and writes the renumbered roster.
func (p *Panel) ReorderMembers(ctx context.Context, from, to int) error {
	next, err := Reorder(p.state.Team, from, to)
	if err != nil {
		return err
	}
	return p.persistTeam(ctx, next)
}

// Reorder returns a copy of members with the item at from moved to to and every Order
// rewritten to its new index.
func Reorder(members []models.TeamMember, from, to int) ([]models.TeamMember, error) {
	n := len(members)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: move %d to %d in roster of %d", ErrValidation, from, to, n)
	}
	items := make([]models.TeamMember, 0, n)
	items = append(items, members[:from]...)
	items = append(items, members[from+1:]...)
	moved := members[from]
	items = append(items[:to], append([]models.TeamMember{moved}, items[to:]...)...)
	for i := range items {
		items[i].Order = i
	}
	return items, nil
}

// persistTeam shows next, writes it and then re-reads the roster from the API whatever
// the outcome of the write.
func (p *Panel) persistTeam(ctx context.Context, next []models.TeamMember) error {
	p.state.Team = next
	err := p.api.SaveTeam(ctx, next)
	if err != nil {
		p.logger.Error("save team failed", zap.Error(err))
		p.ui.Alert("Failed to save team changes: " + errorMessage(err))
	}
	p.refreshTeam(ctx)
	return err
}

func (p *Panel) refreshTeam(ctx context.Context) {
	list, err := p.api.ListTeam(ctx)
	if err != nil {
		p.logger.Error("load team failed", zap.Error(err))
		return
	}
	p.state.Team = list
}
