package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistara-fest/backend/internal/models"
)

// Store persists the singleton site content document.
type Store interface {
	Get(ctx context.Context) (*models.Content, error)
	Save(ctx context.Context, c models.Content) error
}

// Repository keeps the content document in a single JSONB row.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a content repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the stored content or models.ErrNotFound before the first save.
func (r *Repository) Get(ctx context.Context) (*models.Content, error) {
	const q = `SELECT doc FROM site_content WHERE id = 1`
	var raw []byte
	if err := r.pool.QueryRow(ctx, q).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("select content: %w", err)
	}
	var c models.Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return &c, nil
}

// Save overwrites the whole document.
func (r *Repository) Save(ctx context.Context, c models.Content) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	const q = `INSERT INTO site_content (id, doc) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`
	if _, err := r.pool.Exec(ctx, q, raw); err != nil {
		return fmt.Errorf("upsert content: %w", err)
	}
	return nil
}
