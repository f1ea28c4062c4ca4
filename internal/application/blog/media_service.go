package blog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// AllowedImageTypes is the whitelist for blog media. SVG is excluded because it can carry script.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// sniffLen is how much of an upload is read to detect its type
const sniffLen = 3072

var (
	ErrUnsupportedMediaType = shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Only JPEG, PNG, WebP and GIF images are allowed")
	ErrMediaTooLarge        = shared.NewDomainError("MEDIA_TOO_LARGE", "File exceeds the maximum upload size")
	ErrInvalidMediaKey      = shared.NewDomainError("INVALID_INPUT", "Invalid media key")
)

// MediaConfig holds upload limits
type MediaConfig struct {
	MaxUploadSize   int64
	KeyPrefix       string
	UploadURLExpiry time.Duration
}

// DefaultMediaConfig returns the default media limits
func DefaultMediaConfig() MediaConfig {
	return MediaConfig{
		MaxUploadSize:   10 << 20,
		KeyPrefix:       "blog",
		UploadURLExpiry: 15 * time.Minute,
	}
}

// MediaService handles blog image uploads
type MediaService struct {
	storage ObjectStorage
	config  MediaConfig
	logger  *zap.Logger
	now     func() time.Time
}

// NewMediaService creates a new MediaService. Zero config values take defaults.
func NewMediaService(storage ObjectStorage, config MediaConfig, logger *zap.Logger) *MediaService {
	def := DefaultMediaConfig()
	if config.MaxUploadSize <= 0 {
		config.MaxUploadSize = def.MaxUploadSize
	}
	config.KeyPrefix = strings.Trim(config.KeyPrefix, "/")
	if config.KeyPrefix == "" {
		config.KeyPrefix = def.KeyPrefix
	}
	if config.UploadURLExpiry <= 0 {
		config.UploadURLExpiry = def.UploadURLExpiry
	}
	return &MediaService{
		storage: storage,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// RequestUpload validates the declared file and returns a presigned PUT target
func (s *MediaService) RequestUpload(ctx context.Context, req UploadURLRequest) (*UploadURLResponse, error) {
	contentType := normalizeContentType(req.ContentType)
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedMediaType
	}
	if err := s.checkSize(req.Size); err != nil {
		return nil, err
	}

	key := s.newKey(ext)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	s.logger.Info("Media upload URL issued",
		zap.String("key", key),
		zap.String("file_name", req.FileName),
		zap.Int64("size", req.Size))

	return &UploadURLResponse{
		Key:       key,
		UploadURL: url,
		PublicURL: s.storage.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

// Upload stores an image sent through the API. The type is sniffed from the
// content; the client's declared type is ignored.
func (s *MediaService) Upload(ctx context.Context, fileName string, body io.Reader, size int64) (*MediaResponse, error) {
	if err := s.checkSize(size); err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	contentType := normalizeContentType(detected.String())
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		s.logger.Warn("Rejected media upload",
			zap.String("file_name", fileName),
			zap.String("detected", detected.String()))
		return nil, ErrUnsupportedMediaType
	}

	key := s.newKey(ext)
	content := io.LimitReader(io.MultiReader(bytes.NewReader(head), body), size)
	if err := s.storage.Upload(ctx, key, content, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	s.logger.Info("Media uploaded",
		zap.String("key", key),
		zap.String("content_type", contentType),
		zap.Int64("size", size))

	return &MediaResponse{
		Key:         key,
		URL:         s.storage.PublicURL(key),
		ContentType: contentType,
		Size:        size,
	}, nil
}

// DeleteMedia removes an object under the media prefix
func (s *MediaService) DeleteMedia(ctx context.Context, key string) error {
	key = strings.TrimPrefix(key, "/")
	if !s.ownsKey(key) {
		return ErrInvalidMediaKey
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	s.logger.Info("Media deleted", zap.String("key", key))
	return nil
}

// MaxUploadSize is the largest accepted file in bytes
func (s *MediaService) MaxUploadSize() int64 {
	return s.config.MaxUploadSize
}

func (s *MediaService) checkSize(size int64) error {
	if size <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "File is empty")
	}
	if size > s.config.MaxUploadSize {
		return ErrMediaTooLarge
	}
	return nil
}

// newKey is <prefix>/<yyyy>/<mm>/<uuid><ext>
func (s *MediaService) newKey(ext string) string {
	now := s.now().UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s%s", s.config.KeyPrefix, now.Year(), int(now.Month()), uuid.New().String(), ext)
}

func (s *MediaService) ownsKey(key string) bool {
	if key == "" || strings.Contains(key, "..") {
		return false
	}
	if path.Clean(key) != key {
		return false
	}
	return strings.HasPrefix(key, s.config.KeyPrefix+"/")
}

// normalizeContentType drops parameters and lower-cases the media type
func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
