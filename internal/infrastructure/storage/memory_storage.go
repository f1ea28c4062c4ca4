package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	blogapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/blog"
)

var _ blogapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// StoredObject is an object held by MemoryObjectStorage
type StoredObject struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory.
// It stands in for S3 in development when storage is not configured.
type MemoryObjectStorage struct {
	baseURL string
	mu      sync.RWMutex
	objects map[string]StoredObject
}

// NewMemoryObjectStorage creates an empty store whose URLs start with baseURL
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/media"
	}
	return &MemoryObjectStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]StoredObject),
	}
}

// GenerateUploadURL returns a fake presigned URL. Nothing listens on it.
func (s *MemoryObjectStorage) GenerateUploadURL(
	_ context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	expiresAt := time.Now().Add(expiresIn)
	q := url.Values{}
	q.Set("content_type", contentType)
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return s.baseURL + "/upload/" + storageKey + "?" + q.Encode(), expiresAt, nil
}

// Upload reads body fully into memory
func (s *MemoryObjectStorage) Upload(_ context.Context, storageKey string, body io.Reader, size int64, contentType string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	var buf bytes.Buffer
	n, err := io.Copy(&buf, body)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if size >= 0 && n != size {
		return fmt.Errorf("upload size mismatch: declared %d, read %d", size, n)
	}

	s.mu.Lock()
	s.objects[storageKey] = StoredObject{Data: buf.Bytes(), ContentType: contentType}
	s.mu.Unlock()
	return nil
}

// DeleteObject removes the object if present
func (s *MemoryObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	s.mu.Lock()
	delete(s.objects, storageKey)
	s.mu.Unlock()
	return nil
}

// ObjectExists reports whether the object was uploaded
func (s *MemoryObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errEmptyKey
	}
	s.mu.RLock()
	_, ok := s.objects[storageKey]
	s.mu.RUnlock()
	return ok, nil
}

// PublicURL returns baseURL/key
func (s *MemoryObjectStorage) PublicURL(storageKey string) string {
	return s.baseURL + "/" + strings.TrimLeft(storageKey, "/")
}

// Get returns a stored object
func (s *MemoryObjectStorage) Get(storageKey string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	return obj, ok
}
