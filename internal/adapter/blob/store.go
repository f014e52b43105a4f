// Package blob implements journal image storage over an S3-compatible
// backend (MinIO in development). Object keys are caller-unique; the store
// never overwrites silently by design of the key scheme, not by locking.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/soundous/haven-backend/internal/config"
)

// Store provides image blob operations against a single bucket.
type Store struct {
	client     *s3.Client
	bucket     string
	prefix     string
	publicBase string
}

// New builds an S3 client from StorageConfig and returns a ready Store.
// The endpoint is configured explicitly so MinIO and other S3-compatible
// services work without AWS-specific discovery.
func New(ctx context.Context, cfg config.StorageConfig) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &Store{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     strings.Trim(cfg.PublicPrefix, "/"),
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// Prefix returns the key prefix under which all images live.
func (s *Store) Prefix() string {
	return s.prefix
}

// Upload stores one object under prefix/name and returns its key.
func (s *Store) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := s.prefix + "/" + name

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return key, nil
}

// PublicURL returns the URL under which an uploaded key is served.
func (s *Store) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// List returns all object keys under the store prefix.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + "/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s/: %w", s.prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}

// RemoveMany deletes the given keys in one batch call per 1000 keys
// (the S3 DeleteObjects limit). An empty slice is a no-op.
func (s *Store) RemoveMany(ctx context.Context, keys []string) error {
	const batchSize = 1000

	for start := 0; start < len(keys); start += batchSize {
		end := min(start+batchSize, len(keys))

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("delete objects: %w", err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("delete %s: %s", aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}

	return nil
}
