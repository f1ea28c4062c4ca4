// Package storage holds blog media, either in an S3-compatible bucket or in
// process memory for development.
package storage

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	blogapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ blogapp.ObjectStorage = (*S3ObjectStorage)(nil)

var errEmptyKey = errors.New("storage key is required")

const (
	defaultRegion        = "us-east-1"
	defaultPresignExpiry = 15 * time.Minute
	// media never changes under the same key
	mediaCacheControl = "public, max-age=31536000, immutable"
)

// S3ObjectStorage keeps media in one bucket on AWS S3 or a compatible store
// such as MinIO or R2. Browsers upload straight to the bucket through
// presigned PUT URLs.
type S3ObjectStorage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	baseURL string
	expiry  time.Duration
	logger  *zap.Logger
}

// NewS3ObjectStorage builds a client from cfg. Without an endpoint the AWS
// regional endpoint is used, and without keys the default credential chain.
func NewS3ObjectStorage(cfg config.StorageConfig, logger *zap.Logger) (*S3ObjectStorage, error) {
	switch {
	case cfg.Bucket == "":
		return nil, errors.New("storage: bucket is required")
	case (cfg.AccessKey == "") != (cfg.SecretKey == ""):
		return nil, errors.New("storage: access key and secret key must be set together")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cmp.Or(cfg.Region, defaultRegion)

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("storage: aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	expiry := cfg.PresignExpiration
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	return &S3ObjectStorage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		baseURL: publicBaseURL(cfg, endpoint, region),
		expiry:  expiry,
		logger:  logger.Named("storage"),
	}, nil
}

// normalizeEndpoint adds a scheme when missing and drops trailing slashes
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return "", nil
	}
	if !strings.Contains(endpoint, "://") {
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		endpoint = scheme + endpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("storage: invalid endpoint: %w", err)
	}
	return endpoint, nil
}

// publicBaseURL is where readers fetch objects from, without a trailing slash
func publicBaseURL(cfg config.StorageConfig, endpoint, region string) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case endpoint != "" && cfg.UsePathStyle:
		return endpoint + "/" + cfg.Bucket
	case endpoint != "":
		if u, err := url.Parse(endpoint); err == nil {
			u.Host = cfg.Bucket + "." + u.Host
			return u.String()
		}
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

// isMissing matches both the typed S3 errors and the bare codes some
// compatible stores send
func isMissing(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NotFound", "NoSuchKey", "NoSuchBucket":
		return true
	}
	return false
}

// EnsureBucket creates the bucket on first start
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !isMissing(err) {
		return fmt.Errorf("storage: head bucket: %w", err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "BucketAlreadyOwnedByYou" {
		// another instance got there first
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: create bucket: %w", err)
	}
	s.logger.Info("Storage bucket created", zap.String("bucket", s.bucket))
	return nil
}

// GenerateUploadURL presigns a PUT of storageKey. The browser must send the
// same Content-Type.
func (s *S3ObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = s.expiry
	}

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(storageKey),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(mediaCacheControl),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: presign %s: %w", storageKey, err)
	}
	return req.URL, time.Now().Add(expiresIn), nil
}

func (s *S3ObjectStorage) Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(storageKey),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(mediaCacheControl),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", storageKey, err)
	}
	s.logger.Debug("Object uploaded", zap.String("key", storageKey), zap.Int64("size", size))
	return nil
}

// DeleteObject succeeds for a key that does not exist
func (s *S3ObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errEmptyKey
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil && !isMissing(err) {
		return fmt.Errorf("storage: delete %s: %w", storageKey, err)
	}
	return nil
}

func (s *S3ObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errEmptyKey
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(storageKey),
	})
	switch {
	case err == nil:
		return true, nil
	case isMissing(err):
		return false, nil
	default:
		return false, fmt.Errorf("storage: head %s: %w", storageKey, err)
	}
}

func (s *S3ObjectStorage) PublicURL(storageKey string) string {
	return s.baseURL + "/" + strings.TrimLeft(storageKey, "/")
}

func (s *S3ObjectStorage) Bucket() string { return s.bucket }
