package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vistara-fest/backend/internal/models"
)

type registrationDoc struct {
	ID                  primitive.ObjectID `bson:"_id"`
	models.Registration `bson:",inline"`
}

func (d registrationDoc) registration() *models.Registration {
	r := d.Registration
	r.ID = d.ID.Hex()
	return &r
}

// RegistrationStore keeps registrations keyed by ObjectID.
type RegistrationStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

func (s *RegistrationStore) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *RegistrationStore) Create(ctx context.Context, reg *models.Registration) error {
	now := s.clock()
	reg.CreatedAt, reg.UpdatedAt = now, now
	doc := registrationDoc{ID: primitive.NewObjectID(), Registration: *reg}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	reg.ID = doc.ID.Hex()
	return nil
}

func (s *RegistrationStore) List(ctx context.Context) ([]models.Registration, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find registrations: %w", err)
	}
	var docs []registrationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	list := make([]models.Registration, 0, len(docs))
	for _, d := range docs {
		list = append(list, *d.registration())
	}
	return list, nil
}

func (s *RegistrationStore) Get(ctx context.Context, id string) (*models.Registration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var doc registrationDoc
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration %s: %w", id, err)
	}
	return doc.registration(), nil
}

func (s *RegistrationStore) SetActive(ctx context.Context, id string, active bool) (*models.Registration, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, models.ErrNotFound
	}
	now := s.clock()
	update := bson.M{"$set": bson.M{"isActive": active, "updatedAt": now}}
	var before registrationDoc
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.Before)).Decode(&before)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, models.ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("update registration %s: %w", id, err)
	}
	reg := before.registration()
	was := reg.IsActive
	reg.IsActive, reg.UpdatedAt = active, now
	return reg, was, nil
}
