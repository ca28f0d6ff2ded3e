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

const donorColumns = `id, name, tier, logo_url, logo_backend_ref, website, donated_amount, donated_commodity, position, created_at`

type DonorRepo struct {
	db *sqlx.DB
}

func NewDonorRepo(db *sqlx.DB) *DonorRepo {
	return &DonorRepo{db: db}
}

// Ready reports whether a database connection is configured. Admin writes
// check this before touching the media store so a 503 never leaves an
// orphan blob behind.
func (r *DonorRepo) Ready() bool { return r.db != nil }

// List returns all donors, newest first.
func (r *DonorRepo) List(ctx context.Context) ([]models.Donor, error) {
	if r.db == nil {
		return nil, ErrNotConfigured
	}
	donors := []models.Donor{}
	err := r.db.SelectContext(ctx, &donors,
		`SELECT `+donorColumns+` FROM donors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return donors, nil
}

// Create persists a new donor. The caller has already validated name and
// tier and resolved any logo upload.
func (r *DonorRepo) Create(ctx context.Context, d models.Donor) (models.Donor, error) {
	if r.db == nil {
		return models.Donor{}, ErrNotConfigured
	}

	d.ID = uuid.NewString()
	d.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO donors (`+donorColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		d.ID, d.Name, d.Tier, d.LogoURL, d.LogoBackendRef, d.Website,
		d.DonatedAmount, d.DonatedCommodity, d.Position, d.CreatedAt)
	if err != nil {
		return models.Donor{}, err
	}
	return d, nil
}

// Get loads one donor by id.
func (r *DonorRepo) Get(ctx context.Context, id string) (models.Donor, error) {
	if r.db == nil {
		return models.Donor{}, ErrNotConfigured
	}
	var d models.Donor
	err := r.db.GetContext(ctx, &d,
		`SELECT `+donorColumns+` FROM donors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Donor{}, ErrNotFound
	}
	if err != nil {
		return models.Donor{}, err
	}
	return d, nil
}

// Delete removes a donor, reporting ErrNotFound if the id did not resolve.
func (r *DonorRepo) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return ErrNotConfigured
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM donors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Reorder assigns position i to the donor at index i of orderedIDs. Donors
// missing from the list keep their current position.
func (r *DonorRepo) Reorder(ctx context.Context, orderedIDs []string) error {
	return reorderRows(ctx, r.db,
		`UPDATE donors SET position = $1 WHERE id = $2`, orderedIDs)
}
