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

const contentKey = "site"

type contentDoc struct {
	Key            string `bson:"_id"`
	models.Content `bson:",inline"`
}

// ContentStore keeps the singleton content document.
type ContentStore struct {
	coll *mongo.Collection
}

func (s *ContentStore) Get(ctx context.Context) (*models.Content, error) {
	var doc contentDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": contentKey}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find content: %w", err)
	}
	return &doc.Content, nil
}

func (s *ContentStore) Save(ctx context.Context, c models.Content) error {
	doc := contentDoc{Key: contentKey, Content: c}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": contentKey}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace content: %w", err)
	}
	return nil
}
