package registrations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistara-fest/backend/internal/models"
)

// Store persists registrations. Registrations are never deleted.
type Store interface {
	Create(ctx context.Context, reg *models.Registration) error
	List(ctx context.Context) ([]models.Registration, error)
	Get(ctx context.Context, id string) (*models.Registration, error)
	// SetActive updates the verification flag and reports the value it had before.
	SetActive(ctx context.Context, id string, active bool) (reg *models.Registration, wasActive bool, err error)
}

// Repository handles registration persistence in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectColumns = `id, event_id, event_name, participation_type, name, phone, email, college,
	department, degree, course, year, id_card_url, team_name, team_leader_id_card_url, team_members,
	payment_screenshot_url, is_active, created_at, updated_at`

func scanRegistration(row pgx.Row, extra ...interface{}) (*models.Registration, error) {
	var reg models.Registration
	var id uuid.UUID
	var members []byte
	dest := []interface{}{&id, &reg.EventID, &reg.EventName, &reg.ParticipationType, &reg.Name, &reg.Phone,
		&reg.Email, &reg.College, &reg.Department, &reg.Degree, &reg.Course, &reg.Year, &reg.IDCardURL,
		&reg.TeamName, &reg.TeamLeaderIDCardURL, &members, &reg.PaymentScreenshotURL, &reg.IsActive,
		&reg.CreatedAt, &reg.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	reg.ID = id.String()
	if len(members) > 0 {
		if err := json.Unmarshal(members, &reg.TeamMembers); err != nil {
			return nil, fmt.Errorf("decode team members: %w", err)
		}
	}
	if len(reg.TeamMembers) == 0 {
		reg.TeamMembers = nil
	}
	return &reg, nil
}

// Create inserts a registration and fills its ID and timestamps.
func (r *Repository) Create(ctx context.Context, reg *models.Registration) error {
	members := reg.TeamMembers
	if members == nil {
		members = []models.TeamMate{}
	}
	raw, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode team members: %w", err)
	}
	id := uuid.New()
	const q = `INSERT INTO registrations (id, event_id, event_name, participation_type, name, phone, email,
		college, department, degree, course, year, id_card_url, team_name, team_leader_id_card_url,
		team_members, payment_screenshot_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at`
	err = r.pool.QueryRow(ctx, q, id, reg.EventID, reg.EventName, string(reg.ParticipationType), reg.Name,
		reg.Phone, reg.Email, reg.College, reg.Department, reg.Degree, reg.Course, reg.Year, reg.IDCardURL,
		reg.TeamName, reg.TeamLeaderIDCardURL, raw, reg.PaymentScreenshotURL, reg.IsActive).
		Scan(&reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	reg.ID = id.String()
	return nil
}

// List returns all registrations, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Registration, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM registrations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select registrations: %w", err)
	}
	defer rows.Close()
	list := make([]models.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *reg)
	}
	return list, rows.Err()
}

// Get returns a registration by ID. Malformed IDs are reported as not found.
func (r *Repository) Get(ctx context.Context, id string) (*models.Registration, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	reg, err := scanRegistration(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM registrations WHERE id = $1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select registration %s: %w", id, err)
	}
	return reg, nil
}

// SetActive updates is_active and returns the row with its previous value.
func (r *Repository) SetActive(ctx context.Context, id string, active bool) (*models.Registration, bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, false, models.ErrNotFound
	}
	const q = `UPDATE registrations r SET is_active = $2, updated_at = NOW()
		FROM (SELECT id, is_active AS was_active FROM registrations WHERE id = $1 FOR UPDATE) prev
		WHERE r.id = prev.id
		RETURNING r.id, r.event_id, r.event_name, r.participation_type, r.name, r.phone, r.email, r.college,
			r.department, r.degree, r.course, r.year, r.id_card_url, r.team_name, r.team_leader_id_card_url,
			r.team_members, r.payment_screenshot_url, r.is_active, r.created_at, r.updated_at, prev.was_active`
	var was bool
	reg, err := scanRegistration(r.pool.QueryRow(ctx, q, uid, active), &was)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, models.ErrNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("update registration %s: %w", id, err)
	}
	return reg, was, nil
}
