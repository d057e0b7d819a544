package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistara-fest/backend/internal/models"
)

// Store persists the events collection. Writes replace the whole collection;
// the registration counter is owned by ReserveSlot and ReleaseSlot.
type Store interface {
	List(ctx context.Context) ([]models.Event, error)
	Get(ctx context.Context, id string) (*models.Event, error)
	ReplaceAll(ctx context.Context, events []models.Event) error
	ReserveSlot(ctx context.Context, id string) error
	ReleaseSlot(ctx context.Context, id string) error
}

// Repository stores each event as a JSONB document with its position and counters in columns.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an events repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var raw []byte
	var registered int
	if err := row.Scan(&raw, &registered); err != nil {
		return nil, err
	}
	var e models.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	e.RegisteredCount = registered
	return &e, nil
}

// List returns events in admin order.
func (r *Repository) List(ctx context.Context) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT doc, registered_count FROM events ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()
	list := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// Get returns one event by id.
func (r *Repository) Get(ctx context.Context, id string) (*models.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT doc, registered_count FROM events WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select event %s: %w", id, err)
	}
	return e, nil
}

// ReplaceAll writes the collection in one transaction. Events missing from the list are
// deleted. Existing events keep their stored registration count; new ones start from the
// submitted value.
func (r *Repository) ReplaceAll(ctx context.Context, events []models.Event) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM events WHERE NOT (id = ANY($1))`, ids); err != nil {
		return fmt.Errorf("delete removed events: %w", err)
	}

	const q = `INSERT INTO events (id, position, doc, max_slots, registered_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET position = EXCLUDED.position, doc = EXCLUDED.doc,
			max_slots = EXCLUDED.max_slots, updated_at = NOW()`
	for i, e := range events {
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
		if _, err := tx.Exec(ctx, q, e.ID, i, raw, e.Capacity(), e.RegisteredCount); err != nil {
			return fmt.Errorf("upsert event %s: %w", e.ID, err)
		}
	}
	return tx.Commit(ctx)
}

// ReserveSlot increments the registration count unless the event is full.
func (r *Repository) ReserveSlot(ctx context.Context, id string) error {
	const q = `UPDATE events SET registered_count = registered_count + 1, updated_at = NOW()
		WHERE id = $1 AND registered_count < max_slots`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("reserve slot %s: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check event %s: %w", id, err)
	}
	if !exists {
		return models.ErrNotFound
	}
	return models.ErrEventFull
}

// ReleaseSlot gives back a slot taken by ReserveSlot.
func (r *Repository) ReleaseSlot(ctx context.Context, id string) error {
	const q = `UPDATE events SET registered_count = GREATEST(registered_count - 1, 0), updated_at = NOW() WHERE id = $1`
	if _, err := r.pool.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("release slot %s: %w", id, err)
	}
	return nil
}
