// Package objectstore stores and serves the audio clips referenced by
// samples. Clips live in a MinIO bucket; samples reference them by the opaque
// object name returned at upload time.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// AudioStore wraps the MinIO client and bucket for audio objects.
type AudioStore struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

// Options configures the MinIO connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewAudioStore connects to MinIO and ensures the audio bucket exists.
func NewAudioStore(ctx context.Context, opts Options, logger zerolog.Logger) (*AudioStore, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", opts.Bucket, err)
		}
	}

	store := &AudioStore{
		client: client,
		bucket: opts.Bucket,
		logger: logger.With().Str("component", "objectstore").Logger(),
	}
	store.logger.Info().Str("bucket", opts.Bucket).Msg("audio store ready")
	return store, nil
}

// Upload stores an audio clip and returns the generated object name. The
// original filename only contributes its extension; object names are UUIDs to
// guarantee uniqueness.
func (a *AudioStore) Upload(ctx context.Context, originalFilename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := uuid.New().String() + filepath.Ext(originalFilename)

	info, err := a.client.PutObject(ctx, a.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio object %q: %w", objectName, err)
	}

	a.logger.Info().Str("object", objectName).Int64("size", info.Size).Msg("audio uploaded")
	return objectName, nil
}

// Reader opens an audio object for streaming. The caller closes the reader.
func (a *AudioStore) Reader(ctx context.Context, objectName string) (io.ReadCloser, int64, string, error) {
	object, err := a.client.GetObject(ctx, a.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to get audio object %q: %w", objectName, err)
	}

	stat, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, 0, "", fmt.Errorf("failed to stat audio object %q: %w", objectName, err)
	}

	return object, stat.Size, stat.ContentType, nil
}

// Delete removes an audio object.
func (a *AudioStore) Delete(ctx context.Context, objectName string) error {
	if err := a.client.RemoveObject(ctx, a.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete audio object %q: %w", objectName, err)
	}
	a.logger.Info().Str("object", objectName).Msg("audio deleted")
	return nil
}
