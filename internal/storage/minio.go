// Package storage wraps the blob collaborator behind a small interface so
// services that write and purge binaries can be unit tested without a live
// MinIO instance.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
)

type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

type MinIOStore struct {
	client         *minio.Client
	bucket         string
	publicEndpoint string
	publicUseSSL   bool
}

func NewMinIOStore(client *minio.Client, bucket, publicEndpoint string, publicUseSSL bool) *MinIOStore {
	return &MinIOStore{
		client:         client,
		bucket:         bucket,
		publicEndpoint: publicEndpoint,
		publicUseSSL:   publicUseSSL,
	}
}

func (s *MinIOStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to MinIO: %w", err)
	}
	return nil
}

func (s *MinIOStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinIOStore) PublicURL(key string) string {
	scheme := "http"
	if s.publicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.publicEndpoint, s.bucket, url.PathEscape(key))
}
