package team

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistara-fest/backend/internal/models"
)

// Store persists the team roster as a whole collection.
type Store interface {
	List(ctx context.Context) ([]models.TeamMember, error)
	// ReplaceAll overwrites the roster and returns it with server identities assigned.
	ReplaceAll(ctx context.Context, members []models.TeamMember) ([]models.TeamMember, error)
}

// SortByOrder sorts members by Order, keeping the stored sequence for ties.
func SortByOrder(members []models.TeamMember) {
	sort.SliceStable(members, func(i, j int) bool { return members[i].Order < members[j].Order })
}

// Repository keeps team members as JSONB rows keyed by UUID.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a team repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns the roster sorted by display order.
func (r *Repository) List(ctx context.Context) ([]models.TeamMember, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, doc FROM team_members ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select team: %w", err)
	}
	defer rows.Close()
	list := make([]models.TeamMember, 0)
	for rows.Next() {
		var id uuid.UUID
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var m models.TeamMember
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode team member %s: %w", id, err)
		}
		m.ID = id.String()
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortByOrder(list)
	return list, nil
}

// ReplaceAll deletes the roster and inserts members in one transaction. A member whose ID is
// a UUID keeps it; any other member gets a new one.
func (r *Repository) ReplaceAll(ctx context.Context, members []models.TeamMember) ([]models.TeamMember, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM team_members`); err != nil {
		return nil, fmt.Errorf("clear team: %w", err)
	}
	out := make([]models.TeamMember, 0, len(members))
	const q = `INSERT INTO team_members (id, position, doc) VALUES ($1, $2, $3)`
	for i, m := range members {
		id, err := uuid.Parse(m.ID)
		if err != nil {
			id = uuid.New()
		}
		m.ID = id.String()
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("encode team member: %w", err)
		}
		if _, err := tx.Exec(ctx, q, id, i, raw); err != nil {
			return nil, fmt.Errorf("insert team member %s: %w", id, err)
		}
		out = append(out, m)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	SortByOrder(out)
	return out, nil
}
