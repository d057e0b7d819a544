package registrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/pkg/queue"
)

type memStore struct {
	regs      []models.Registration
	createErr error
	setErr    error
}

func (m *memStore) Create(_ context.Context, reg *models.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	reg.ID = "reg-" + strconv.Itoa(len(m.regs)+1)
	reg.CreatedAt = time.Now()
	m.regs = append(m.regs, *reg)
	return nil
}

func (m *memStore) List(context.Context) ([]models.Registration, error) {
	return append([]models.Registration{}, m.regs...), nil
}

func (m *memStore) Get(_ context.Context, id string) (*models.Registration, error) {
	for _, r := range m.regs {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) SetActive(_ context.Context, id string, active bool) (*models.Registration, bool, error) {
	if m.setErr != nil {
		return nil, false, m.setErr
	}
	for i := range m.regs {
		if m.regs[i].ID == id {
			was := m.regs[i].IsActive
			m.regs[i].IsActive = active
			r := m.regs[i]
			return &r, was, nil
		}
	}
	return nil, false, models.ErrNotFound
}

type fakeEvents struct {
	events   map[string]*models.Event
	reserved map[string]int
	released map[string]int
}

func newFakeEvents(list ...models.Event) *fakeEvents {
	f := &fakeEvents{events: map[string]*models.Event{}, reserved: map[string]int{}, released: map[string]int{}}
	for i := range list {
		f.events[list[i].ID] = &list[i]
	}
	return f
}

func (f *fakeEvents) Get(_ context.Context, id string) (*models.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := e.Clone()
	return &c, nil
}

func (f *fakeEvents) ReserveSlot(_ context.Context, id string) error {
	e, ok := f.events[id]
	if !ok {
		return models.ErrNotFound
	}
	if e.RegisteredCount >= e.Capacity() {
		return models.ErrEventFull
	}
	e.RegisteredCount++
	f.reserved[id]++
	return nil
}

func (f *fakeEvents) ReleaseSlot(_ context.Context, id string) error {
	f.events[id].RegisteredCount--
	f.released[id]++
	return nil
}

type recordingQueue struct {
	jobs []queue.JobType
	err  error
}

func (q *recordingQueue) Enqueue(_ context.Context, jobType queue.JobType, _ interface{}) error {
	q.jobs = append(q.jobs, jobType)
	return q.err
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/registrations", h.Submit)
	r.GET("/admin/registrations", h.List)
	r.GET("/admin/registrations/:id", h.Get)
	r.POST("/admin/verify-registration", h.Verify)
	return r
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func soloForm() map[string]interface{} {
	return map[string]interface{}{
		"email": "asha@example.com", "eventId": "2", "participationType": "Solo",
		"name": "Asha", "phone": "9000000000", "college": "KPR", "department": "CSE",
		"degree": "BE", "course": "CSE", "year": "3", "idCardUrl": "https://x/id.jpg",
		"paymentScreenshotUrl": "https://x/pay.jpg",
	}
}

func teamForm(members int) map[string]interface{} {
	list := make([]map[string]string, 0, members)
	for i := 0; i < members; i++ {
		list = append(list, map[string]string{"name": "M" + strconv.Itoa(i), "phone": "9" + strconv.Itoa(i)})
	}
	return map[string]interface{}{
		"email": "lead@example.com", "eventId": "5", "participationType": "Team",
		"teamName": "Reel Makers", "college": "KPR", "department": "ECE", "degree": "BE",
		"course": "ECE", "year": "2", "teamLeaderIdCardUrl": "https://x/lead.jpg",
		"paymentScreenshotUrl": "https://x/pay.jpg", "teamMembers": list,
	}
}

func fixtureEvents() *fakeEvents {
	solo := models.Event{ID: "2", Title: "ANYBODY CAN DANCE (Solo)", ParticipationType: models.ParticipationSolo, MaxSlots: 1}
	team := models.Event{ID: "5", Title: "FRAME BY FRAME", ParticipationType: models.ParticipationTeam, TeamSize: "1-4", MaxSlots: 40}
	return newFakeEvents(solo, team)
}

func TestSubmit_solo(t *testing.T) {
	store, events, jobs := &memStore{}, fixtureEvents(), &recordingQueue{}
	r := newRouter(NewHandler(store, events, jobs, nil))

	w := send(r, http.MethodPost, "/registrations", soloForm())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, store.regs, 1)
	reg := store.regs[0]
	assert.False(t, reg.IsActive)
	assert.Equal(t, "ANYBODY CAN DANCE (Solo)", reg.EventName)
	assert.Nil(t, reg.TeamMembers)
	assert.Equal(t, 1, events.reserved["2"])
	assert.Equal(t, []queue.JobType{queue.JobTypeRegistrationAlert, queue.JobTypeSheetsAppend}, jobs.jobs)
}

func TestSubmit_eventFull(t *testing.T) {
	store, events := &memStore{}, fixtureEvents()
	r := newRouter(NewHandler(store, events, nil, nil))

	require.Equal(t, http.StatusCreated, send(r, http.MethodPost, "/registrations", soloForm()).Code)
	w := send(r, http.MethodPost, "/registrations", soloForm())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, store.regs, 1)
}

func TestSubmit_team(t *testing.T) {
	store, events := &memStore{}, fixtureEvents()
	r := newRouter(NewHandler(store, events, nil, nil))

	w := send(r, http.MethodPost, "/registrations", teamForm(4))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Len(t, store.regs, 1)
	assert.Len(t, store.regs[0].TeamMembers, 4)
	assert.Equal(t, "Reel Makers", store.regs[0].DisplayName())
}

func TestSubmit_releasesSlotWhenStoreFails(t *testing.T) {
	store, events := &memStore{createErr: errors.New("insert failed")}, fixtureEvents()
	r := newRouter(NewHandler(store, events, nil, nil))

	w := send(r, http.MethodPost, "/registrations", soloForm())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, events.released["2"])
	assert.Equal(t, 0, events.events["2"].RegisteredCount)
}

func TestSubmit_generalPassWithoutEvent(t *testing.T) {
	store := &memStore{}
	r := newRouter(NewHandler(store, newFakeEvents(), nil, nil))

	form := soloForm()
	delete(form, "eventId")
	w := send(r, http.MethodPost, "/registrations", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, models.DefaultEventName, store.regs[0].EventName)
}

func TestSubmit_rejects(t *testing.T) {
	tests := []struct {
		name   string
		form   func() map[string]interface{}
		status int
		want   string
	}{
		{"bad email", func() map[string]interface{} { f := soloForm(); f["email"] = "nope"; return f }, http.StatusBadRequest, "valid email"},
		{"display-name email", func() map[string]interface{} { f := soloForm(); f["email"] = "Bob <bob@x.com>"; return f }, http.StatusBadRequest, "valid email"},
		{"missing email", func() map[string]interface{} { f := soloForm(); delete(f, "email"); return f }, http.StatusBadRequest, "valid email"},
		{"solo missing id card", func() map[string]interface{} { f := soloForm(); f["idCardUrl"] = " "; return f }, http.StatusBadRequest, "solo registration"},
		{"team missing leader card", func() map[string]interface{} { f := teamForm(2); delete(f, "teamLeaderIdCardUrl"); return f }, http.StatusBadRequest, "required team fields"},
		{"team without members", func() map[string]interface{} { return teamForm(0) }, http.StatusBadRequest, "at least one team member"},
		{"team too large", func() map[string]interface{} { return teamForm(5) }, http.StatusBadRequest, "too many team members"},
		{"member without phone", func() map[string]interface{} {
			f := teamForm(1)
			f["teamMembers"] = []map[string]string{{"name": "A"}}
			return f
		}, http.StatusBadRequest, "name and phone"},
		{"solo into team event", func() map[string]interface{} { f := soloForm(); f["eventId"] = "5"; return f }, http.StatusBadRequest, "requires a team"},
		{"unknown type", func() map[string]interface{} { f := soloForm(); f["participationType"] = "Duo"; return f }, http.StatusBadRequest, "Solo or Team"},
		{"unknown event", func() map[string]interface{} { f := soloForm(); f["eventId"] = "99"; return f }, http.StatusNotFound, "event not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, events := &memStore{}, fixtureEvents()
			r := newRouter(NewHandler(store, events, nil, nil))
			w := send(r, http.MethodPost, "/registrations", tt.form())
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Empty(t, store.regs)
			assert.Empty(t, events.reserved)
		})
	}
}

func TestVerify(t *testing.T) {
	store := &memStore{regs: []models.Registration{{ID: "r1", Email: "a@example.com", Name: "A"}}}
	jobs := &recordingQueue{}
	r := newRouter(NewHandler(store, newFakeEvents(), jobs, nil))

	w := send(r, http.MethodPost, "/admin/verify-registration", map[string]interface{}{"registrationId": "r1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, store.regs[0].IsActive)
	assert.Contains(t, w.Body.String(), `"isActive":true`)
	assert.Equal(t, []queue.JobType{queue.JobTypeVerifiedEmail, queue.JobTypeSheetsMarkVerified}, jobs.jobs)

	// Verifying again does not send a second email.
	w = send(r, http.MethodPost, "/admin/verify-registration", map[string]interface{}{"registrationId": "r1", "isActive": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, jobs.jobs, 2)
}

func TestVerify_enqueueFailureStillSucceeds(t *testing.T) {
	store := &memStore{regs: []models.Registration{{ID: "r1"}}}
	r := newRouter(NewHandler(store, newFakeEvents(), &recordingQueue{err: errors.New("redis down")}, nil))
	w := send(r, http.MethodPost, "/admin/verify-registration", map[string]interface{}{"registrationId": "r1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerify_errors(t *testing.T) {
	r := newRouter(NewHandler(&memStore{}, newFakeEvents(), nil, nil))
	assert.Equal(t, http.StatusBadRequest, send(r, http.MethodPost, "/admin/verify-registration", map[string]interface{}{}).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPost, "/admin/verify-registration", map[string]interface{}{"registrationId": "missing"}).Code)

	r = newRouter(NewHandler(&memStore{setErr: errors.New("down")}, newFakeEvents(), nil, nil))
	assert.Equal(t, http.StatusInternalServerError, send(r, http.MethodPost, "/admin/verify-registration", map[string]interface{}{"registrationId": "r1"}).Code)
}

func TestListAndGet(t *testing.T) {
	store := &memStore{regs: []models.Registration{{ID: "r1", Name: "A"}, {ID: "r2", Name: "B"}}}
	r := newRouter(NewHandler(store, newFakeEvents(), nil, nil))

	w := send(r, http.MethodGet, "/admin/registrations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []models.Registration `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/admin/registrations/r2", nil).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/admin/registrations/zz", nil).Code)
}
