package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"ngo-site/internal/models"
)

const memberColumns = `id, name, role, bio, insta_id, email, contact, photo_url, photo_backend_ref, position, created_at`

type MemberRepo struct {
	db *sqlx.DB
}

func NewMemberRepo(db *sqlx.DB) *MemberRepo {
	return &MemberRepo{db: db}
}

func (r *MemberRepo) Ready() bool { return r.db != nil }

// List returns all members ordered by their manual position, creation time
// breaking ties.
func (r *MemberRepo) List(ctx context.Context) ([]models.Member, error) {
	if r.db == nil {
		return nil, ErrNotConfigured
	}
	members := []models.Member{}
	err := r.db.SelectContext(ctx, &members,
		`SELECT `+memberColumns+` FROM members ORDER BY position ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Create persists a new member. An empty role defaults to Core.
func (r *MemberRepo) Create(ctx context.Context, m models.Member) (models.Member, error) {
	if r.db == nil {
		return models.Member{}, ErrNotConfigured
	}

	m.ID = uuid.NewString()
	m.CreatedAt = time.Now().UTC()
	if m.Role == "" {
		m.Role = models.DefaultMemberRole
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO members (`+memberColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Name, m.Role, m.Bio, m.InstaID, m.Email, m.Contact,
		m.PhotoURL, m.PhotoBackendRef, m.Position, m.CreatedAt)
	if err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// Get loads one member by id.
func (r *MemberRepo) Get(ctx context.Context, id string) (models.Member, error) {
	if r.db == nil {
		return models.Member{}, ErrNotConfigured
	}
	var m models.Member
	err := r.db.GetContext(ctx, &m,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Member{}, ErrNotFound
	}
	if err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// Delete removes a member, reporting ErrNotFound if the id did not resolve.
func (r *MemberRepo) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return ErrNotConfigured
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder assigns position i to the member at index i of orderedIDs.
// Members missing from the list keep their current position.
func (r *MemberRepo) Reorder(ctx context.Context, orderedIDs []string) error {
	return reorderRows(ctx, r.db,
		`UPDATE members SET position = $1 WHERE id = $2`, orderedIDs)
}
