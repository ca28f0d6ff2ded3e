package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngo-site/internal/models"
)

func donorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "tier", "logo_url", "logo_backend_ref", "website",
		"donated_amount", "donated_commodity", "position", "created_at",
	})
}

func TestDonorList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonorRepo(db)

	mock.ExpectQuery(`SELECT (.+) FROM donors ORDER BY created_at DESC`).
		WillReturnRows(donorRows().
			AddRow("d2", "Beta Corp", "Gold", nil, nil, nil, nil, nil, 0, time.Now()).
			AddRow("d1", "Acme", "Platinum", "/uploads/1-acme.png", nil, "https://acme.test", 500.0, nil, 0, time.Now()))

	donors, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, donors, 2)
	assert.Equal(t, "Beta Corp", donors[0].Name)
	assert.Equal(t, "Platinum", donors[1].Tier)
	require.NotNil(t, donors[1].LogoURL)
	assert.Equal(t, "/uploads/1-acme.png", *donors[1].LogoURL)
}

func TestDonorCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonorRepo(db)

	mock.ExpectExec(`INSERT INTO donors`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	donor, err := repo.Create(context.Background(), models.Donor{Name: "Acme", Tier: "Gold"})
	require.NoError(t, err)
	assert.NotEmpty(t, donor.ID)
	assert.False(t, donor.CreatedAt.IsZero())
}

func TestDonorDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonorRepo(db)

	mock.ExpectExec(`DELETE FROM donors WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDonorReorder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonorRepo(db)

	// updates run concurrently, so arrival order is undefined
	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec(`UPDATE donors SET position = \$1 WHERE id = \$2`).
		WithArgs(0, "c").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE donors SET position = \$1 WHERE id = \$2`).
		WithArgs(1, "a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE donors SET position = \$1 WHERE id = \$2`).
		WithArgs(2, "b").WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Reorder(context.Background(), []string{"c", "a", "b"})
	require.NoError(t, err)
}

func TestDonorReorderPartialFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDonorRepo(db)

	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec(`UPDATE donors SET position = \$1 WHERE id = \$2`).
		WithArgs(0, "a").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE donors SET position = \$1 WHERE id = \$2`).
		WithArgs(1, "b").WillReturnError(errors.New("connection reset"))

	err := repo.Reorder(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestDonorRepoNotConfigured(t *testing.T) {
	repo := NewDonorRepo(nil)
	ctx := context.Background()

	assert.False(t, repo.Ready())

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = repo.Create(ctx, models.Donor{Name: "x", Tier: "Gold"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, repo.Delete(ctx, "x"), ErrNotConfigured)
	assert.ErrorIs(t, repo.Reorder(ctx, []string{"x"}), ErrNotConfigured)
}
