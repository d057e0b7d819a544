package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/vistara-fest/backend/config"
	"github.com/vistara-fest/backend/internal/content"
	"github.com/vistara-fest/backend/internal/events"
	"github.com/vistara-fest/backend/internal/registrations"
	"github.com/vistara-fest/backend/internal/store/mongostore"
	"github.com/vistara-fest/backend/internal/team"
	"github.com/vistara-fest/backend/pkg/database"
)

// stores is the document store chosen by STORE_DRIVER.
type stores struct {
	content       content.Store
	events        events.Store
	team          team.Store
	registrations registrations.Store
	close         func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMongo {
		db, err := mongostore.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, logger)
		if err != nil {
			return nil, err
		}
		return &stores{
			content:       db.Content(),
			events:        db.Events(),
			team:          db.Team(),
			registrations: db.Registrations(),
			close:         func() { _ = db.Close(context.Background()) },
		}, nil
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns), logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		content:       content.NewRepository(pool),
		events:        events.NewRepository(pool),
		team:          team.NewRepository(pool),
		registrations: registrations.NewRepository(pool),
		close:         pool.Close,
	}, nil
}
