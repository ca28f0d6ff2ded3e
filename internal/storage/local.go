package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// URLPrefix is the public path local uploads are served under.
const URLPrefix = "/uploads/"

// LocalStore writes blobs into an uploads directory served as static files.
// It is the fallback backend when no cloud credentials are configured.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Name() string { return "local" }

// Dir returns the uploads directory, for wiring the static file route.
func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Store(_ context.Context, data []byte, filename string) (StoredObject, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return StoredObject{}, fmt.Errorf("create uploads dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), normalizeFilename(filename))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return StoredObject{}, fmt.Errorf("write upload: %w", err)
	}

	return StoredObject{URL: URLPrefix + name}, nil
}

func (s *LocalStore) Delete(_ context.Context, url, _ string) error {
	rel, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		// not one of ours (e.g. a cloud URL left over from a backend switch)
		return nil
	}

	// Base() keeps the delete inside the uploads dir no matter what the
	// stored URL contains.
	err := os.Remove(filepath.Join(s.dir, filepath.Base(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
