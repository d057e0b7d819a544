package mongostore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vistara-fest/backend/internal/content"
	"github.com/vistara-fest/backend/internal/events"
	"github.com/vistara-fest/backend/internal/models"
	"github.com/vistara-fest/backend/internal/registrations"
	"github.com/vistara-fest/backend/internal/team"
)

var (
	_ content.Store       = (*ContentStore)(nil)
	_ events.Store        = (*EventStore)(nil)
	_ team.Store          = (*TeamStore)(nil)
	_ registrations.Store = (*RegistrationStore)(nil)
)

func TestEventUpdate(t *testing.T) {
	e := models.Event{ID: "ev-1", Title: "CANVAS CLASH", RegisteredCount: 7, EntryFee: "150"}
	update, err := eventUpdate(e, 3)
	require.NoError(t, err)

	set := update["$set"].(bson.M)
	assert.NotContains(t, set, "registeredCount")
	assert.Equal(t, models.DefaultMaxSlots, set["maxSlots"])
	assert.Equal(t, 3, set["position"])
	assert.Equal(t, "CANVAS CLASH", set["title"])
	assert.Equal(t, "150", set["entryFee"])
	assert.Equal(t, bson.M{"registeredCount": 7}, update["$setOnInsert"])
}

func TestNewTeamDoc(t *testing.T) {
	oid := primitive.NewObjectID()
	kept := newTeamDoc(models.TeamMember{ID: oid.Hex(), Name: "Asha"}, 0)
	assert.Equal(t, oid, kept.ID)
	assert.Equal(t, oid.Hex(), kept.member().ID)

	fresh := newTeamDoc(models.TeamMember{LocalID: "1700000000000", Name: "Ravi"}, 1)
	assert.False(t, fresh.ID.IsZero())
	assert.Equal(t, fresh.ID.Hex(), fresh.member().ID)
	assert.Equal(t, "1700000000000", fresh.member().LocalID)
	assert.Equal(t, 1, fresh.Position)
}

func TestTeamWrites_upsertsEveryMemberInOrder(t *testing.T) {
	kept := primitive.NewObjectID()
	writes, ids, out := teamWrites([]models.TeamMember{
		{ID: kept.Hex(), Name: "Asha", Order: 0},
		{LocalID: "tmp-1", Name: "Ravi", Order: 1},
	})
	require.Len(t, writes, 2)
	require.Len(t, ids, 2)
	assert.Equal(t, kept, ids[0])
	assert.NotEqual(t, primitive.NilObjectID, ids[1])

	for i, w := range writes {
		m, ok := w.(*mongo.ReplaceOneModel)
		require.True(t, ok)
		require.NotNil(t, m.Upsert)
		assert.True(t, *m.Upsert)
		assert.Equal(t, bson.M{"_id": ids[i]}, m.Filter)
		doc, ok := m.Replacement.(teamDoc)
		require.True(t, ok)
		assert.Equal(t, i, doc.Position)
	}
	assert.Equal(t, ids[1].Hex(), out[1].ID)
}

func TestTeamWrites_empty(t *testing.T) {
	writes, ids, out := teamWrites(nil)
	assert.Empty(t, writes)
	assert.NotNil(t, ids, "$nin needs an array, not null")
	assert.Empty(t, out)
}

func TestRegistrationDoc_bson(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	doc := registrationDoc{ID: oid, Registration: models.Registration{
		ID: "ignored", EventID: "ev-1", Name: "Asha", CreatedAt: created,
		TeamMembers: []models.TeamMate{{Name: "Ravi", Phone: "98"}},
	}}
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Equal(t, oid, m["_id"])
	assert.Equal(t, "ev-1", m["eventId"])
	assert.NotContains(t, m, "ID")

	var back registrationDoc
	require.NoError(t, bson.Unmarshal(raw, &back))
	reg := back.registration()
	assert.Equal(t, oid.Hex(), reg.ID)
	assert.Equal(t, "Ravi", reg.TeamMembers[0].Name)
	assert.True(t, reg.CreatedAt.Equal(created))
}
