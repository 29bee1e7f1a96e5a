// Package storage stores document bytes in S3-compatible object storage.
// Only metadata lives in Postgres; the blob store is the system of record
// for file content.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore wraps an S3-compatible client scoped to a single bucket.
type BlobStore struct {
	client *minio.Client
	bucket string
}

// New connects to the object store and ensures the bucket exists.
func New(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*BlobStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage.New: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("storage.New: bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage.New: make bucket: %w", err)
		}
	}

	return &BlobStore{client: client, bucket: bucket}, nil
}

// ObjectPath builds the org-scoped object key for a document. Keeping the
// org prefix first makes per-org listing and retention trivial.
func ObjectPath(orgID, docID uuid.UUID, name string) string {
	return fmt.Sprintf("%s/documents/%s/%s", orgID, docID, name)
}

// Upload streams a document body into the bucket.
func (b *BlobStore) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	_, err := b.client.PutObject(ctx, b.bucket, path, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage.BlobStore.Upload: %w", err)
	}
	return nil
}

// Download opens a reader over the stored object. The caller must close it.
func (b *BlobStore) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage.BlobStore.Download: %w", err)
	}
	// GetObject is lazy; Stat forces the first request so missing objects
	// surface here instead of on first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("storage.BlobStore.Download: %w", err)
	}
	return obj, nil
}

// Delete removes the stored object. Removing a missing object is not an
// error; metadata deletion already guards existence.
func (b *BlobStore) Delete(ctx context.Context, path string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("storage.BlobStore.Delete: %w", err)
	}
	return nil
}
