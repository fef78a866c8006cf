// Package s3blob reads uploaded resumes from S3-compatible object storage such
// as AWS S3, Cloudflare R2 or MinIO.
package s3blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/custodia-labs/tailor/internal/core/domain"
	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// DefaultRegion is used when none is configured. R2 expects "auto".
const DefaultRegion = "auto"

// MaxObjectSize caps downloads; resumes are small documents.
const MaxObjectSize = 20 << 20

// Store fetches objects from a single bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// R2Endpoint returns the S3 endpoint of a Cloudflare account.
func R2Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// New creates a store from blob settings. A custom endpoint switches the
// client to path-style addressing.
func New(ctx context.Context, settings domain.BlobSettings) (*Store, error) {
	if settings.Bucket == "" {
		return nil, fmt.Errorf("s3: %w: bucket is required", domain.ErrInvalidInput)
	}
	region := settings.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if settings.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, ""),
		))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, bucket: settings.Bucket}, nil
}

// Get downloads an object and returns its body and content type.
func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	if key == "" {
		return nil, "", fmt.Errorf("s3: %w: empty object key", domain.ErrInvalidInput)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, "", fmt.Errorf("s3: object %q: %w", key, domain.ErrNotFound)
		}
		return nil, "", fmt.Errorf("s3: get %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, MaxObjectSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("s3: read %q: %w", key, err)
	}
	if len(data) > MaxObjectSize {
		return nil, "", fmt.Errorf("s3: object %q: %w: larger than %d bytes", key, domain.ErrInvalidInput, MaxObjectSize)
	}

	return data, aws.ToString(out.ContentType), nil
}
