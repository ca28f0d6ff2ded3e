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

const galleryColumns = `id, title, url, backend_ref, featured, created_at`

type GalleryRepo struct {
	db *sqlx.DB
}

func NewGalleryRepo(db *sqlx.DB) *GalleryRepo {
	return &GalleryRepo{db: db}
}

func (r *GalleryRepo) Ready() bool { return r.db != nil }

// List returns all gallery images, newest first.
func (r *GalleryRepo) List(ctx context.Context) ([]models.GalleryImage, error) {
	if r.db == nil {
		return nil, ErrNotConfigured
	}
	images := []models.GalleryImage{}
	err := r.db.SelectContext(ctx, &images,
		`SELECT `+galleryColumns+` FROM gallery_images ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return images, nil
}

// ListFeatured returns only the images flagged for the homepage slideshow,
// in the same relative order as List.
func (r *GalleryRepo) ListFeatured(ctx context.Context) ([]models.GalleryImage, error) {
	if r.db == nil {
		return nil, ErrNotConfigured
	}
	images := []models.GalleryImage{}
	err := r.db.SelectContext(ctx, &images,
		`SELECT `+galleryColumns+` FROM gallery_images WHERE featured = true ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Create persists one uploaded image record.
func (r *GalleryRepo) Create(ctx context.Context, img models.GalleryImage) (models.GalleryImage, error) {
	if r.db == nil {
		return models.GalleryImage{}, ErrNotConfigured
	}

	img.ID = uuid.NewString()
	img.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO gallery_images (`+galleryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		img.ID, img.Title, img.URL, img.BackendRef, img.Featured, img.CreatedAt)
	if err != nil {
		return models.GalleryImage{}, err
	}
	return img, nil
}

// Get loads one image by id.
func (r *GalleryRepo) Get(ctx context.Context, id string) (models.GalleryImage, error) {
	if r.db == nil {
		return models.GalleryImage{}, ErrNotConfigured
	}
	var img models.GalleryImage
	err := r.db.GetContext(ctx, &img,
		`SELECT `+galleryColumns+` FROM gallery_images WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GalleryImage{}, ErrNotFound
	}
	if err != nil {
		return models.GalleryImage{}, err
	}
	return img, nil
}

// SetFeatured flips the homepage slideshow flag and returns the updated
// record.
func (r *GalleryRepo) SetFeatured(ctx context.Context, id string, featured bool) (models.GalleryImage, error) {
	if r.db == nil {
		return models.GalleryImage{}, ErrNotConfigured
	}
	var img models.GalleryImage
	err := r.db.GetContext(ctx, &img,
		`UPDATE gallery_images SET featured = $1 WHERE id = $2 RETURNING `+galleryColumns,
		featured, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GalleryImage{}, ErrNotFound
	}
	if err != nil {
		return models.GalleryImage{}, err
	}
	return img, nil
}

// Delete removes an image record. The caller is responsible for deleting
// the underlying blob first (best-effort).
func (r *GalleryRepo) Delete(ctx context.Context, id string) error {
	if r.db == nil {
		return ErrNotConfigured
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
