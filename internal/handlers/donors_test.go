package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngo-site/internal/models"
	"ngo-site/internal/repository"
	"ngo-site/internal/storage"
)

func newDonorRouter(t *testing.T, db *sqlx.DB) *gin.Engine {
	t.Helper()
	h := NewDonorHandler(repository.NewDonorRepo(db), storage.NewLocalStore(t.TempDir()), nil)
	r := gin.New()
	r.GET("/api/donors", h.List)
	r.POST("/api/donors/admin", h.Create)
	r.POST("/api/donors/admin/reorder", h.Reorder)
	r.DELETE("/api/donors/admin/:id", h.Delete)
	return r
}

func donorRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "tier", "logo_url", "logo_backend_ref", "website",
		"donated_amount", "donated_commodity", "position", "created_at",
	})
}

func postForm(t *testing.T, r *gin.Engine, path string, fields map[string]string, files map[string]map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestDonorCreateWithLogo(t *testing.T) {
	db, mock := newMockDB(t)
	r := newDonorRouter(t, db)

	mock.ExpectExec(`INSERT INTO donors`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postForm(t, r, "/api/donors/admin",
		map[string]string{
			"name":          "Acme",
			"tier":          "Gold",
			"website":       "https://acme.test",
			"donatedAmount": "1500.50",
		},
		map[string]map[string][]byte{"logo": {"acme logo.png": []byte("png bytes")}})

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp struct {
		Donor models.Donor `json:"donor"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Acme", resp.Donor.Name)
	require.NotNil(t, resp.Donor.LogoURL)
	assert.Contains(t, *resp.Donor.LogoURL, "acme-logo.png")
	require.NotNil(t, resp.Donor.DonatedAmount)
	assert.Equal(t, 1500.50, *resp.Donor.DonatedAmount)
}

func TestDonorCreateMissingFields(t *testing.T) {
	db, _ := newMockDB(t)
	r := newDonorRouter(t, db)

	// missing tier
	rr := postForm(t, r, "/api/donors/admin", map[string]string{"name": "Acme"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// missing name
	rr = postForm(t, r, "/api/donors/admin", map[string]string{"tier": "Gold"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// nothing was persisted either way: no SQL expectations were set
}

func TestDonorCreateInvalidTier(t *testing.T) {
	db, _ := newMockDB(t)
	r := newDonorRouter(t, db)

	rr := postForm(t, r, "/api/donors/admin",
		map[string]string{"name": "Acme", "tier": "Diamond"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDonorCreateNotConfigured(t *testing.T) {
	r := newDonorRouter(t, nil)

	rr := postForm(t, r, "/api/donors/admin",
		map[string]string{"name": "Acme", "tier": "Gold"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestDonorListDegradesWithoutDB(t *testing.T) {
	r := newDonorRouter(t, nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/donors", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"donors":[]}`, rr.Body.String())
}

func TestDonorList(t *testing.T) {
	db, mock := newMockDB(t)
	r := newDonorRouter(t, db)

	mock.ExpectQuery(`SELECT (.+) FROM donors ORDER BY created_at DESC`).
		WillReturnRows(donorRows().
			AddRow("d1", "Acme", "Gold", nil, nil, nil, nil, nil, 0, time.Now()))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/donors", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Acme")
}

func TestDonorReorder(t *testing.T) {
	db, mock := newMockDB(t)
	r := newDonorRouter(t, db)

	mock.MatchExpectationsInOrder(false)
	mock.ExpectExec(`UPDATE donors SET position = \$1 WHERE id = \$2`).
		WithArgs(0, "c").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE donors SET position = \$1 WHERE id = \$2`).
		WithArgs(1, "a").WillReturnResult(sqlmock.NewResult(0, 1))

	rr := doJSON(r, "POST", "/api/donors/admin/reorder", `{"orderedIds":["c","a"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestDonorReorderBadBody(t *testing.T) {
	db, _ := newMockDB(t)
	r := newDonorRouter(t, db)

	rr := doJSON(r, "POST", "/api/donors/admin/reorder", `{"orderedIds":"not-a-list"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// cloudStore mimics the GCS backend: stored objects get a backend ref that
// Delete needs back, and it records what Delete was called with.
type cloudStore struct {
	ref        string
	deletedURL string
	deletedRef string
}

func (s *cloudStore) Name() string { return "cloud" }

func (s *cloudStore) Store(_ context.Context, _ []byte, filename string) (storage.StoredObject, error) {
	return storage.StoredObject{
		URL:        "https://storage.googleapis.com/test-bucket/" + s.ref,
		BackendRef: s.ref,
	}, nil
}

func (s *cloudStore) Delete(_ context.Context, url, backendRef string) error {
	s.deletedURL = url
	s.deletedRef = backendRef
	return nil
}

// A cloud-stored logo's backend ref must survive the round trip through the
// donor record so deleting the donor can delete the blob.
func TestDonorDeleteCleansCloudLogo(t *testing.T) {
	db, mock := newMockDB(t)
	store := &cloudStore{ref: "ngo-gallery/abc-acme-logo.png"}
	h := NewDonorHandler(repository.NewDonorRepo(db), store, nil)
	r := gin.New()
	r.POST("/api/donors/admin", h.Create)
	r.DELETE("/api/donors/admin/:id", h.Delete)

	mock.ExpectExec(`INSERT INTO donors`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := postForm(t, r, "/api/donors/admin",
		map[string]string{"name": "Acme", "tier": "Gold"},
		map[string]map[string][]byte{"logo": {"acme logo.png": []byte("png bytes")}})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Donor models.Donor `json:"donor"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Donor.LogoBackendRef)
	assert.Equal(t, store.ref, *resp.Donor.LogoBackendRef)

	mock.ExpectQuery(`SELECT (.+) FROM donors WHERE id = \$1`).
		WithArgs("d1").
		WillReturnRows(donorRows().
			AddRow("d1", "Acme", "Gold",
				"https://storage.googleapis.com/test-bucket/"+store.ref, store.ref,
				nil, nil, nil, 0, time.Now()))
	mock.ExpectExec(`DELETE FROM donors WHERE id = \$1`).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/donors/admin/d1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	// the store got a usable ref, not an empty string
	assert.Equal(t, store.ref, store.deletedRef)
	assert.Equal(t, "https://storage.googleapis.com/test-bucket/"+store.ref, store.deletedURL)
}

func TestDonorDeleteNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := newDonorRouter(t, db)

	mock.ExpectQuery(`SELECT (.+) FROM donors WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(donorRows())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/donors/admin/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
