// Package storage persists rendered artifacts in an S3-compatible
// object store. Objects are addressed by opaque keys derived from the
// rendered site; the keys are what the pages table stores in its file
// column.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pagesnap/internal/logging"
	"pagesnap/internal/page"
)

// DefaultPresignExpiry is how long download links stay valid.
const DefaultPresignExpiry = time.Hour

// Config holds object store connection settings.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

// Store wraps an S3-compatible client for artifact upload, removal, and
// presigned download links.
type Store struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	logger *logging.Logger
}

// New connects to the object store described by cfg.
func New(cfg Config, logger *logging.Logger) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		expiry: expiry,
		logger: logger,
	}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("created artifact bucket", "bucket", s.bucket)
	return nil
}

// NewKey derives a fresh storage key for an artifact of the given site.
// The key is a name-based UUID of the site under a random namespace, so
// re-rendering the same site always yields a distinct key.
func NewKey(site string) string {
	return uuid.NewSHA1(uuid.New(), []byte(site)).String()
}

// Upload stores an artifact under key with its MIME content type.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload artifact %s: %w", key, err)
	}
	s.logger.Debug("artifact uploaded", "key", key, "bytes", len(data), "content_type", contentType)
	return nil
}

// UploadNew stores a freshly rendered artifact under a new key derived
// from its site and returns the key.
func (s *Store) UploadNew(ctx context.Context, data []byte, site string, pageType page.Type) (string, error) {
	key := NewKey(site)
	if err := s.Upload(ctx, key, data, pageType.ContentType()); err != nil {
		return "", err
	}
	return key, nil
}

// UploadNewVersion replaces the artifact stored under an existing key
// with a re-rendered one.
func (s *Store) UploadNewVersion(ctx context.Context, data []byte, pageType page.Type, key string) error {
	return s.Upload(ctx, key, data, pageType.ContentType())
}

// Exists reports whether an artifact is stored under key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat artifact %s: %w", key, err)
	}
	return true, nil
}

// Delete removes the artifact stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete artifact %s: %w", key, err)
	}
	return nil
}

// PresignedURL returns a time-limited download link for the artifact
// stored under key.
func (s *Store) PresignedURL(ctx context.Context, key string) (string, error) {
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign artifact %s: %w", key, err)
	}
	return presigned.String(), nil
}
