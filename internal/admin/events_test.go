package admin

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistara-fest/backend/internal/models"
)

func TestSaveEvent_newSoloEvent(t *testing.T) {
	api := &fakeAPI{}
	p, ui := newTestPanel(api)

	p.NewEvent()
	d := p.EventDraft()
	d.Title = "Band Night"
	d.Description = "Live music"
	require.NoError(t, p.SetParticipationType(models.ParticipationSolo))
	require.NoError(t, p.SaveEvent(context.Background()))

	require.Len(t, api.savedEvents, 1)
	require.Len(t, api.savedEvents[0], 1)
	e := api.savedEvents[0][0]
	_, err := strconv.ParseInt(e.ID, 10, 64)
	assert.NoError(t, err, "id is a numeric string")
	assert.Equal(t, "1767225600000", e.ID)
	require.NotNil(t, e.Image)
	assert.Equal(t, PlaceholderEventImage, *e.Image)
	assert.Equal(t, []string{}, e.TicketTiers)
	assert.Equal(t, []string{}, e.Rules)
	require.NotNil(t, e.IsPassEvent)
	assert.False(t, *e.IsPassEvent, "new events start on manual pricing")
	assert.Equal(t, Browsing, p.State().EventMode)
	assert.Equal(t, []string{"Event Saved Successfully!"}, ui.alerts)
}

func TestSaveEvent_idCollisionMovesForward(t *testing.T) {
	api := &fakeAPI{}
	p, _ := newTestPanel(api)
	p.state.Events = []models.Event{{ID: "1767225600000", Title: "Old"}}

	p.NewEvent()
	p.EventDraft().Title = "New"
	p.EventDraft().Description = "x"
	require.NoError(t, p.SaveEvent(context.Background()))
	assert.Equal(t, "1767225600001", p.State().Events[1].ID)
}

func TestSaveEvent_requiresTitleAndDescription(t *testing.T) {
	existing := []models.Event{{ID: "1", Title: "Keep"}}
	tests := []struct {
		name        string
		title, desc string
	}{
		{"empty title", "", "Live music"},
		{"blank title", "   ", "Live music"},
		{"empty description", "Band Night", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			p, ui := newTestPanel(api)
			p.state.Events = append([]models.Event{}, existing...)

			p.NewEvent()
			p.EventDraft().Title = tt.title
			p.EventDraft().Description = tt.desc
			assert.ErrorIs(t, p.SaveEvent(context.Background()), ErrValidation)
			assert.Empty(t, api.savedEvents)
			assert.Equal(t, existing, p.State().Events)
			assert.Equal(t, Creating, p.State().EventMode)
			assert.Equal(t, []string{"Please fill in all required fields (Title, Description)"}, ui.alerts)
		})
	}
}

func TestSaveEvent_teamSize(t *testing.T) {
	api := &fakeAPI{}
	p, ui := newTestPanel(api)
	p.NewEvent()
	p.EventDraft().Title = "Dance"
	p.EventDraft().Description = "Group"
	require.NoError(t, p.SetParticipationType(models.ParticipationTeam))

	p.EventDraft().TeamSize = "three"
	assert.ErrorIs(t, p.SaveEvent(context.Background()), ErrValidation)
	assert.Len(t, ui.alerts, 1)

	p.EventDraft().TeamSize = "3-12"
	require.NoError(t, p.SaveEvent(context.Background()))
	assert.Equal(t, "3-12", api.events[0].TeamSize)

	assert.ErrorIs(t, p.SetParticipationType("Duo"), ErrValidation)
}

func TestSetParticipationType_soloClearsTeamSize(t *testing.T) {
	p, _ := newTestPanel(&fakeAPI{})
	p.NewEvent()
	require.NoError(t, p.SetParticipationType(models.ParticipationTeam))
	p.EventDraft().TeamSize = "5"
	require.NoError(t, p.SetParticipationType(models.ParticipationSolo))
	assert.Empty(t, p.EventDraft().TeamSize)
}

func TestEditEvent(t *testing.T) {
	img := models.NewMediaAsset("https://cdn/poster.jpg")
	api := &fakeAPI{}
	p, _ := newTestPanel(api)
	p.state.Events = []models.Event{
		{ID: "1", Title: "A", Description: "a", Image: &img},
		{ID: "2", Title: "B", Description: "b"},
	}

	require.NoError(t, p.EditEvent("1"))
	d := p.EventDraft()
	assert.Equal(t, Editing, p.State().EventMode)
	assert.Equal(t, []string{}, d.TicketTiers)
	assert.Equal(t, []string{}, d.Rules)
	assert.Equal(t, models.DefaultMaxSlots, d.MaxSlots)
	require.NotNil(t, d.IsPassEvent)
	assert.True(t, *d.IsPassEvent)

	d.Title = "A2"
	d.Image = nil
	require.NoError(t, p.SaveEvent(context.Background()))

	saved := api.savedEvents[0]
	require.Len(t, saved, 2)
	assert.Equal(t, "1", saved[0].ID)
	assert.Equal(t, "A2", saved[0].Title)
	require.NotNil(t, saved[0].Image)
	assert.Equal(t, "https://cdn/poster.jpg", saved[0].Image.URL)
	assert.Equal(t, "B", saved[1].Title)

	assert.ErrorIs(t, p.EditEvent("nope"), models.ErrNotFound)
}

func TestSaveEvent_failureKeepsLocalCollection(t *testing.T) {
	api := &fakeAPI{saveErr: errNetwork}
	p, ui := newTestPanel(api)
	p.NewEvent()
	p.EventDraft().Title = "Band Night"
	p.EventDraft().Description = "Live music"

	assert.ErrorIs(t, p.SaveEvent(context.Background()), errNetwork)
	assert.Len(t, p.State().Events, 1)
	assert.Equal(t, Browsing, p.State().EventMode)
	assert.Equal(t, []string{"Error saving events: " + errNetwork.Error()}, ui.alerts)
}

func TestToggleTicketTier_isInvolution(t *testing.T) {
	for _, start := range [][]string{{}, {models.TierGold}, {models.TierSilver, models.TierDiamond}} {
		for _, tier := range []string{models.TierDiamond, models.TierGold, models.TierSilver} {
			p, _ := newTestPanel(&fakeAPI{})
			p.NewEvent()
			p.EventDraft().TicketTiers = append([]string{}, start...)

			p.ToggleTicketTier(tier)
			p.ToggleTicketTier(tier)
			assert.ElementsMatch(t, start, p.EventDraft().TicketTiers, "start %v tier %s", start, tier)
		}
	}
}

func TestRules(t *testing.T) {
	p, _ := newTestPanel(&fakeAPI{})
	p.NewEvent()
	p.AddRule("  Bring ID  ")
	p.AddRule("   ")
	p.AddRule("No props")
	p.AddRule("Max 5 minutes")
	assert.Equal(t, []string{"Bring ID", "No props", "Max 5 minutes"}, p.EventDraft().Rules)

	p.RemoveRule(1)
	p.RemoveRule(7)
	assert.Equal(t, []string{"Bring ID", "Max 5 minutes"}, p.EventDraft().Rules)
}

func TestDeleteEvent(t *testing.T) {
	api := &fakeAPI{}
	p, ui := newTestPanel(api)
	p.state.Events = []models.Event{{ID: "1"}, {ID: "2"}}
	ctx := context.Background()

	ui.confirm = false
	assert.ErrorIs(t, p.DeleteEvent(ctx, "1"), ErrCancelled)
	assert.Empty(t, api.savedEvents)

	ui.confirm = true
	require.NoError(t, p.DeleteEvent(ctx, "1"))
	assert.Equal(t, []models.Event{{ID: "2"}}, api.savedEvents[0])
	assert.Equal(t, "Are you sure you want to delete this event?", ui.confirms[0])

	assert.ErrorIs(t, p.DeleteEvent(ctx, "1"), models.ErrNotFound)
}
