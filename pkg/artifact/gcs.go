package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps artifacts as objects in a Google Cloud Storage bucket.
type GCSStore struct {
	bucket *gstorage.BucketHandle
}

// NewGCSStore connects to the given bucket. credentialsPath may be empty,
// in which case application default credentials are used.
func NewGCSStore(ctx context.Context, bucketName, credentialsPath string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := gstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCSStore{bucket: client.Bucket(bucketName)}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, data []byte) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = "text/calendar"
	w.CacheControl = "no-cache, no-store, must-revalidate"
	if _, err := w.Write(data); err != nil {
		// Abort the upload session; the Write error is the one that matters.
		w.Close()
		return fmt.Errorf("writing artifact %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing writer for %s: %w", key, err)
	}
	return nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
