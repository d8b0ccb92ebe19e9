package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipeverse/backend/config"
	apperrors "github.com/pageza/recipeverse/backend/pkg/errors"
)

// MaxImageSize is the largest accepted recipe image.
const MaxImageSize = 2 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService stores recipe images in S3
type ImageService struct {
	client     ObjectPutter
	bucketName string
	publicURL  func(key string) string
	log        *zap.Logger
	maxRetries int
}

// NewImageService creates an ImageService backed by the configured bucket.
func NewImageService(s3Config *config.S3Config, log *zap.Logger) *ImageService {
	return &ImageService{
		client:     s3Config.Client,
		bucketName: s3Config.BucketName,
		publicURL:  s3Config.PublicURL,
		log:        log,
		maxRetries: 3,
	}
}

// NewImageServiceWithClient is used when the S3 client is provided directly.
func NewImageServiceWithClient(client ObjectPutter, bucketName string, log *zap.Logger) *ImageService {
	return &ImageService{
		client:     client,
		bucketName: bucketName,
		publicURL: func(key string) string {
			return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucketName, key)
		},
		log:        log,
		maxRetries: 3,
	}
}

// UploadRecipeImage validates an image and uploads it, returning its public URL.
// The content type is sniffed from the data when the caller does not send one.
func (s *ImageService) UploadRecipeImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewValidationError("image is empty")
	}
	if len(data) > MaxImageSize {
		return "", apperrors.New(apperrors.CodePayloadTooLarge, "Image must be 2MB or smaller")
	}

	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("unsupported image type %q", contentType))
	}

	key := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), ext)

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		_, lastErr = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if lastErr == nil {
			url := s.publicURL(key)
			s.log.Info("uploaded recipe image", zap.String("url", url), zap.Int("bytes", len(data)))
			return url, nil
		}

		s.log.Warn("image upload attempt failed", zap.Int("attempt", attempt), zap.Error(lastErr))
		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}
	}

	return "", apperrors.New(apperrors.CodeServiceUnavailable, "Failed to store image").
		WithCause(fmt.Errorf("upload after %d attempts: %w", s.maxRetries, lastErr))
}
