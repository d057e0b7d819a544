package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// uploadPartSize is the multipart chunk used for videos; images fit in one part.
const uploadPartSize = 5 << 20

// S3Config holds the uploads bucket settings.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	UploadsBucket   string
	PublicBaseURL   string
}

// S3 stores festival media (event posters, team photos, gallery, payment proofs)
// as public-read objects.
type S3 struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  string
	logger   *zap.Logger
}

// NewS3 builds the uploader. Without static keys the default AWS credential chain is used.
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UploadsBucket == "" {
		return nil, fmt.Errorf("s3: uploads bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.UploadsBucket, cfg.Region)
	}
	logger.Info("S3 media storage ready",
		zap.String("bucket", cfg.UploadsBucket),
		zap.String("region", cfg.Region),
		zap.Bool("static_credentials", cfg.AccessKeyID != ""),
	)
	return &S3{
		uploader: manager.NewUploader(s3.NewFromConfig(awsCfg), func(u *manager.Uploader) {
			u.PartSize = uploadPartSize
		}),
		bucket:  cfg.UploadsBucket,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// ObjectURL is the public URL of key.
func (s *S3) ObjectURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Upload writes body under key and returns its public URL.
func (s *S3) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.uploader.Upload(ctx, in); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	s.logger.Debug("media stored", zap.String("key", key), zap.Int64("size", size))
	return s.ObjectURL(key), nil
}
