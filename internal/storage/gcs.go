package storage

import (
	"context"
	"errors"
	"fmt"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// GCSStore uploads blobs to a Google Cloud Storage bucket and serves them
// from the bucket's public URL. The object name doubles as the backend
// reference needed for deletion.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle

	bucketName string
	folder     string
}

// NewGCSStore connects to GCS. credentialsFile may be empty, in which case
// application default credentials apply.
func NewGCSStore(ctx context.Context, bucketName, folder, credentialsFile string) (*GCSStore, error) {
	if bucketName == "" {
		return nil, errors.New("gcs: bucket not set")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: create client: %w", err)
	}

	if folder == "" {
		folder = "ngo-gallery"
	}
	return &GCSStore{
		client:     client,
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
		folder:     folder,
	}, nil
}

func (s *GCSStore) Name() string { return "gcs" }

func (s *GCSStore) Store(ctx context.Context, data []byte, filename string) (StoredObject, error) {
	object := path.Join(s.folder, uuid.NewString()+"-"+normalizeFilename(filename))

	w := s.bucket.Object(object).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return StoredObject{}, fmt.Errorf("gcs: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return StoredObject{}, fmt.Errorf("gcs: finalize object: %w", err)
	}

	return StoredObject{
		URL:        fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, object),
		BackendRef: object,
	}, nil
}

func (s *GCSStore) Delete(ctx context.Context, _ string, backendRef string) error {
	if backendRef == "" {
		return nil
	}
	err := s.bucket.Object(backendRef).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
