package assets

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Sink uploads blobs to an S3 bucket.
type S3Sink struct {
	client s3iface.S3API
	bucket string
	region string

	// PublicBaseURL, when set, prefixes object keys in returned URLs
	// (for example a CDN in front of the bucket).
	PublicBaseURL string
}

// NewS3Sink creates a sink for bucket using a new AWS session in region.
// Credentials come from the default provider chain.
func NewS3Sink(bucket, region string) (*S3Sink, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return NewS3SinkWithClient(s3.New(sess), bucket, region), nil
}

// NewS3SinkWithClient creates a sink around an existing client.
func NewS3SinkWithClient(client s3iface.S3API, bucket, region string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, region: region}
}

// Upload implements Sink.
func (s *S3Sink) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	key := strings.TrimPrefix(path, "/")
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("uploading s3://%s/%s: %w", s.bucket, key, err)
	}
	return s.URL(key), nil
}

// URL returns the public URL of key.
func (s *S3Sink) URL(key string) string {
	if s.PublicBaseURL != "" {
		return strings.TrimSuffix(s.PublicBaseURL, "/") + "/" + key
	}
	if s.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
