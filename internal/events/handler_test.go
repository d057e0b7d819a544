package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistara-fest/backend/internal/models"
)

// memStore is an in-memory Store.
type memStore struct {
	events     []models.Event
	listErr    error
	replaceErr error
	replaced   int
}

func (m *memStore) List(context.Context) ([]models.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (*models.Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			c := e.Clone()
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ReplaceAll(_ context.Context, list []models.Event) error {
	m.replaced++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.events = list
	return nil
}

func (m *memStore) ReserveSlot(_ context.Context, id string) error {
	for i := range m.events {
		if m.events[i].ID == id {
			if m.events[i].RegisteredCount >= m.events[i].Capacity() {
				return models.ErrEventFull
			}
			m.events[i].RegisteredCount++
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memStore) ReleaseSlot(_ context.Context, id string) error {
	for i := range m.events {
		if m.events[i].ID == id && m.events[i].RegisteredCount > 0 {
			m.events[i].RegisteredCount--
		}
	}
	return nil
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/events", h.List)
	r.POST("/events/update", h.Update)
	return r
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events/update", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestList(t *testing.T) {
	store := &memStore{events: SeedEvents()[:2]}
	r := newRouter(NewHandler(store, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []models.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "1", body.Data[0].ID)
	assert.False(t, body.Data[0].PassEvent())
}

func TestList_storeError(t *testing.T) {
	r := newRouter(NewHandler(&memStore{listErr: errors.New("down")}, nil, nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUpdate_replacesCollection(t *testing.T) {
	store := &memStore{events: SeedEvents()}
	r := newRouter(NewHandler(store, nil, nil))

	w := post(r, `{"events":[{"id":"42","title":"Band Night","description":"Live music","participationType":"Solo","image":"poster.jpg","entryFee":150}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, store.events, 1)
	got := store.events[0]
	assert.Equal(t, "42", got.ID)
	assert.Equal(t, models.Fee("150"), got.EntryFee)
	require.NotNil(t, got.Image)
	assert.Equal(t, models.MediaAsset{URL: "poster.jpg", Type: models.MediaImage}, *got.Image)
	assert.Equal(t, []string{}, got.TicketTiers)
	assert.Equal(t, []string{}, got.Rules)
}

func TestUpdate_emptyListClearsEvents(t *testing.T) {
	store := &memStore{events: SeedEvents()}
	r := newRouter(NewHandler(store, nil, nil))

	w := post(r, `{"events":[]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.events)
}

func TestUpdate_rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing events", `{}`, "events is required"},
		{"missing id", `{"events":[{"title":"x"}]}`, "id is required"},
		{"duplicate id", `{"events":[{"id":"1"},{"id":"1"}]}`, "duplicate event id"},
		{"bad team size", `{"events":[{"id":"1","participationType":"Team","teamSize":"lots"}]}`, "team size"},
		{"inverted range", `{"events":[{"id":"1","participationType":"Team","teamSize":"5-2"}]}`, "invalid bounds"},
		{"unknown participation", `{"events":[{"id":"1","participationType":"Duo"}]}`, "unknown participation type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			r := newRouter(NewHandler(store, nil, nil))
			w := post(r, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Zero(t, store.replaced)
		})
	}
}

func TestUpdate_storeError(t *testing.T) {
	r := newRouter(NewHandler(&memStore{replaceErr: errors.New("tx aborted")}, nil, nil))
	w := post(r, `{"events":[{"id":"1"}]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()

	store := &memStore{}
	n, err := Seed(ctx, store, nil)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	require.Len(t, store.events, 6)
	for _, e := range store.events {
		if e.ParticipationType == models.ParticipationTeam {
			_, _, err := models.ParseTeamSize(e.TeamSize)
			assert.NoError(t, err, e.ID)
		}
	}

	n, err = Seed(ctx, store, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, store.replaced)
}
