package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"devmart/internal/storage"
)

type Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

var _ storage.ObjectStore = (*Storage)(nil)

// New loads the default AWS credential chain. A non-empty endpoint switches to
// path-style addressing for S3 compatible services.
func New(ctx context.Context, region, bucket, endpoint, publicBaseURL string) (*Storage, error) {
	const op = "storage.s3.New"

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	if publicBaseURL == "" {
		if endpoint != "" {
			publicBaseURL = strings.TrimRight(endpoint, "/") + "/" + bucket
		} else {
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
		}
	}

	return NewWithClient(client, bucket, publicBaseURL), nil
}

func NewWithClient(client *s3.Client, bucket, publicBaseURL string) *Storage {
	return &Storage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *Storage) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	const op = "storage.s3.Put"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.publicURL(key), nil
}

// Delete is idempotent on S3: removing a missing key succeeds.
func (s *Storage) Delete(ctx context.Context, key string) error {
	const op = "storage.s3.Delete"

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) publicURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}

	return s.baseURL + "/" + strings.Join(parts, "/")
}
