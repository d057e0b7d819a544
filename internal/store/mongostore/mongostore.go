// Package mongostore implements the content, events, team and registrations stores on MongoDB.
// It is selected with STORE_DRIVER=mongo.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Collection names.
const (
	CollectionContent       = "content"
	CollectionEvents        = "events"
	CollectionTeam          = "team_members"
	CollectionRegistrations = "registrations"
)

// DB is a connected database handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, pings the primary and ensures indexes.
func Connect(ctx context.Context, uri, database string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	d := &DB{client: client, db: client.Database(database)}
	if err := d.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	logger.Info("mongo connected", zap.String("database", database))
	return d, nil
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(CollectionRegistrations).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "eventId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("registrations indexes: %w", err)
	}
	_, err = d.db.Collection(CollectionEvents).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "position", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("events indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Content returns the site content store.
func (d *DB) Content() *ContentStore {
	return &ContentStore{coll: d.db.Collection(CollectionContent)}
}

// Events returns the events store.
func (d *DB) Events() *EventStore {
	return &EventStore{coll: d.db.Collection(CollectionEvents)}
}

// Team returns the team roster store.
func (d *DB) Team() *TeamStore {
	return &TeamStore{coll: d.db.Collection(CollectionTeam)}
}

// Registrations returns the registrations store.
func (d *DB) Registrations() *RegistrationStore {
	return &RegistrationStore{coll: d.db.Collection(CollectionRegistrations)}
}
