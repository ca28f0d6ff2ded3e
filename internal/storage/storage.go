package storage

import (
	"context"
	"path/filepath"
	"strings"
)

// StoredObject is what a backend hands back after persisting a blob.
// BackendRef is the opaque id a cloud backend needs for later deletion; it
// is empty for local-disk storage where the URL alone is enough.
type StoredObject struct {
	URL        string
	BackendRef string
}

// MediaStore persists a binary blob and returns a retrievable URL. The two
// implementations (local disk, Google Cloud Storage) are selected once at
// startup from configuration.
type MediaStore interface {
	// Name identifies the backend ("local" or "gcs") for logs and metrics.
	Name() string
	// Store writes the blob under a collision-resistant name derived from
	// filename.
	Store(ctx context.Context, data []byte, filename string) (StoredObject, error)
	// Delete removes a previously stored blob. Missing blobs are not an
	// error; callers treat any failure as best-effort.
	Delete(ctx context.Context, url, backendRef string) error
}

// normalizeFilename strips any path components and collapses whitespace
// runs to single dashes, matching the names the public URLs expose.
func normalizeFilename(name string) string {
	name = filepath.Base(name)
	normalized := strings.Join(strings.Fields(name), "-")
	if normalized == "" || normalized == "." || normalized == string(filepath.Separator) {
		return "upload"
	}
	return normalized
}
