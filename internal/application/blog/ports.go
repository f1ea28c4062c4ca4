// Package blog contains the post, comment and media use cases.
package blog

import (
	"context"
	"io"
	"time"
)

// ObjectStorage stores uploaded blog media.
// Implemented by infrastructure/storage (S3 and in-memory).
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL valid for expiresIn
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// Upload streams size bytes from body into storageKey
	Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error

	// DeleteObject deletes an object. Deleting a missing key succeeds.
	DeleteObject(ctx context.Context, storageKey string) error

	ObjectExists(ctx context.Context, storageKey string) (bool, error)

	// PublicURL is the URL readers load storageKey from
	PublicURL(storageKey string) string
}
