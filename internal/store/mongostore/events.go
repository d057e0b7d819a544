package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vistara-fest/backend/internal/models"
)

// EventStore keeps one document per event keyed by the event id.
type EventStore struct {
	coll *mongo.Collection
}

func (s *EventStore) List(ctx context.Context) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	list := make([]models.Event, 0)
	if err := cur.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return list, nil
}

func (s *EventStore) Get(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find event %s: %w", id, err)
	}
	return &e, nil
}

// eventUpdate builds the upsert for an event at position. The registration counter is only
// written on insert so a concurrent ReserveSlot is not overwritten.
func eventUpdate(e models.Event, position int) (bson.M, error) {
	raw, err := bson.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	delete(set, "registeredCount")
	set["maxSlots"] = e.Capacity()
	set["position"] = position
	return bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"registeredCount": e.RegisteredCount},
	}, nil
}

func (s *EventStore) ReplaceAll(ctx context.Context, events []models.Event) error {
	ids := make([]string, 0, len(events))
	writes := make([]mongo.WriteModel, 0, len(events))
	for i, e := range events {
		ids = append(ids, e.ID)
		update, err := eventUpdate(e, i)
		if err != nil {
			return err
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": e.ID}).
			SetUpdate(update).
			SetUpsert(true))
	}
	if len(writes) > 0 {
		if _, err := s.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
			return fmt.Errorf("upsert events: %w", err)
		}
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("delete removed events: %w", err)
	}
	return nil
}

func (s *EventStore) ReserveSlot(ctx context.Context, id string) error {
	filter := bson.M{
		"_id":   id,
		"$expr": bson.M{"$lt": bson.A{"$registeredCount", "$maxSlots"}},
	}
	res, err := s.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"registeredCount": 1}})
	if err != nil {
		return fmt.Errorf("reserve slot %s: %w", id, err)
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("check event %s: %w", id, err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return models.ErrEventFull
}

func (s *EventStore) ReleaseSlot(ctx context.Context, id string) error {
	filter := bson.M{"_id": id, "registeredCount": bson.M{"$gt": 0}}
	if _, err := s.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"registeredCount": -1}}); err != nil {
		return fmt.Errorf("release slot %s: %w", id, err)
	}
	return nil
}
