package config

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
	Region     string
}

// NewS3Config initializes the S3 client for recipe images. It returns nil
// without error when no bucket is configured, which disables uploads.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	if cfg.S3BucketName == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: cfg.S3BucketName,
		Region:     cfg.AWSRegion,
	}, nil
}

// PublicURL returns the public address of an object in the bucket.
func (s *S3Config) PublicURL(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.BucketName, objectKey)
}
