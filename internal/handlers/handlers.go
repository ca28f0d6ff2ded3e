// Package handlers wires the HTTP surface: public reads, admin-guarded
// writes, login and the live-update websocket.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"ngo-site/internal/metrics"
	"ngo-site/internal/repository"
	"ngo-site/internal/storage"
)

// Upload size caps, enforced before anything reaches the media store.
const (
	MaxGalleryImageSize = 20 << 20 // per image in a gallery batch
	MaxAttachmentSize   = 5 << 20  // donor logo, member photo
	MaxGalleryBatch     = 12
)

// writeRepoError maps repository errors onto the response taxonomy: 503 for
// a missing database (admin writes only), 404 for unresolved ids, 500 for
// anything unexpected.
func writeRepoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not configured"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Println("Database error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error."})
	}
}

// readUpload pulls a multipart file into memory, rejecting anything over
// the size cap before a single byte is stored.
func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if fh.Size > limit {
		return nil, fmt.Errorf("file %q exceeds the %dMB limit", fh.Filename, limit>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, limit))
}

// storeUpload persists a blob through the media store and counts the bytes.
func storeUpload(ctx context.Context, store storage.MediaStore, data []byte, filename string) (storage.StoredObject, error) {
	obj, err := store.Store(ctx, data, filename)
	if err != nil {
		return storage.StoredObject{}, err
	}
	metrics.UploadBytesTotal.WithLabelValues(store.Name()).Add(float64(len(data)))
	return obj, nil
}

// deleteBlob removes a stored blob best-effort: losing a blob is preferable
// to leaving an undeletable record, so failures are logged and swallowed.
func deleteBlob(ctx context.Context, store storage.MediaStore, url, backendRef string) {
	if url == "" && backendRef == "" {
		return
	}
	if err := store.Delete(ctx, url, backendRef); err != nil {
		log.Printf("Blob delete failed for %s (ref %q), continuing: %v", url, backendRef, err)
	}
}

// optString converts an optional form value to the nullable column shape.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
