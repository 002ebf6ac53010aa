package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps one JSON object per date: gs://<bucket>/<prefix><date>.json.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStore creates a storage client. credentialsFile may be empty to use
// application default credentials. The caller owns Close.
func NewGCSStore(ctx context.Context, bucket, prefix, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}, nil
}

// Close releases the underlying client.
func (g *GCSStore) Close() error { return g.client.Close() }

func (g *GCSStore) object(key string) *storage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(ObjectName(g.prefix, key))
}

// ObjectName maps a date key to its object name.
func ObjectName(prefix, key string) string { return prefix + key + ".json" }

func (g *GCSStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat gs://%s/%s: %w", g.bucket, ObjectName(g.prefix, key), err)
	}
	return true, nil
}

func (g *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := g.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", g.bucket, ObjectName(g.prefix, key), err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", g.bucket, ObjectName(g.prefix, key), err)
	}
	return b, nil
}

func (g *GCSStore) Put(ctx context.Context, key string, value []byte) error {
	w := g.object(key).NewWriter(ctx)
	w.ContentType = "application/json"
	w.CacheControl = "no-cache"
	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return fmt.Errorf("write gs://%s/%s: %w", g.bucket, ObjectName(g.prefix, key), err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", ObjectName(g.prefix, key), err)
	}
	return nil
}
