package images

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3ImageStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads images to a single bucket.
type S3ImageStore struct {
	client S3API
	bucket string
	region string
}

// NewS3ImageStore creates a new S3ImageStore.
func NewS3ImageStore(client S3API, bucket, region string) *S3ImageStore {
	return &S3ImageStore{
		client: client,
		bucket: bucket,
		region: region,
	}
}

// Upload puts the object. Empty content types are left for S3 to default.
func (s *S3ImageStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s to bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

// URL returns the virtual-hosted style address of key.
func (s *S3ImageStore) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
