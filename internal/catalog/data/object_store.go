package data

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/lokmitra/content-catalog-backend/internal/catalog/biz"
	"github.com/lokmitra/content-catalog-backend/internal/conf"
	"github.com/lokmitra/content-catalog-backend/internal/pkg/minio"
)

// ObjectStore backs the catalog's byte storage with a single MinIO
// bucket. Objects are addressed by opaque storage keys only.
type ObjectStore struct {
	client *minio.Client
	cfg    conf.MinIOConfig
}

// NewObjectStore creates a MinIO-backed object store
func NewObjectStore(client *minio.Client, cfg conf.MinIOConfig) biz.ObjectStore {
	return &ObjectStore{client: client, cfg: cfg}
}

// Put writes the bytes under the key
func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// Remove deletes the bytes under the key
func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

// PublicURL derives the deterministic public URL for a key. When a
// public base URL is configured (CDN or reverse proxy) it takes
// precedence over the raw endpoint.
func (s *ObjectStore) PublicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.PublicBaseURL, "/"), s.cfg.Bucket, key)
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, key)
}

// PresignedURL returns a time-bounded download URL that serves the
// object under its original filename.
func (s *ObjectStore) PresignedURL(ctx context.Context, key, filename string) (string, error) {
	params := make(url.Values)
	if filename != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}

	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry, params)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
