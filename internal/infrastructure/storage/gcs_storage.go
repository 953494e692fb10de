package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/grasdvirus/prime-panier/internal/application/media"
	infraconfig "github.com/grasdvirus/prime-panier/internal/infrastructure/config"
)

var _ media.ObjectStorage = (*GCSObjectStorage)(nil)

// GCSObjectStorage stores uploads in a Google Cloud Storage bucket
type GCSObjectStorage struct {
	client        *storage.Client
	bucket        string
	publicBaseURL string
}

// NewGCSObjectStorage creates a client from the credentials file, or from
// Application Default Credentials when none is configured.
func NewGCSObjectStorage(ctx context.Context, cfg *infraconfig.UploadConfig) (*GCSObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("upload configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("upload bucket is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = "https://storage.googleapis.com/" + cfg.Bucket
	}

	return &GCSObjectStorage{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Put streams the object to the bucket
func (s *GCSObjectStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return s.URL(key), nil
}

// Delete removes an object, a missing object is not an error
func (s *GCSObjectStorage) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL returns the public URL of key
func (s *GCSObjectStorage) URL(key string) string {
	return s.publicBaseURL + "/" + key
}

// Close releases the client
func (s *GCSObjectStorage) Close() error {
	return s.client.Close()
}
