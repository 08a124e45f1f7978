package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/amelikova/stage-portfolio/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of the S3 client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	BucketName    string
	KeyPrefix     string
	PublicBaseURL string
	Client        ObjectPutter
}

// NewS3Store initializes the bucket store from S3_BUCKET_NAME, S3_REGION,
// S3_KEY_PREFIX and S3_PUBLIC_BASE_URL.
func NewS3Store(ctx context.Context, c map[string]string) (*S3Store, error) {
	bucketName := config.GetString(c, "S3_BUCKET_NAME", "")
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is not set in environment variables")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(config.GetString(c, "S3_REGION", "us-east-1")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &S3Store{
		BucketName:    bucketName,
		KeyPrefix:     config.GetString(c, "S3_KEY_PREFIX", "uploads/"),
		PublicBaseURL: config.GetString(c, "S3_PUBLIC_BASE_URL", ""),
		Client:        s3.NewFromConfig(cfg),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := s.KeyPrefix + name

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return s.publicURL(key), nil
}

func (s *S3Store) publicURL(key string) string {
	if s.PublicBaseURL != "" {
		return strings.TrimSuffix(s.PublicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.BucketName, key)
}
