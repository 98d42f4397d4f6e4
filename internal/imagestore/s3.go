// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

package imagestore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Store fetches image bytes from an S3-compatible bucket (Cloudflare R2
// in production; anything S3-shaped in tests).
type S3Store struct {
	client *s3.S3
	bucket string
}

var _ Store = (*S3Store)(nil)

// NewS3Store builds the store for one bucket. A non-empty endpoint points
// the client at an R2 or self-hosted deployment.
func NewS3Store(bucket, region, endpoint string) (*S3Store, error) {
	cfg := &aws.Config{
		Region: aws.String(region),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("imagestore: failed to create session: %w", err)
	}

	return &S3Store{client: s3.New(sess), bucket: bucket}, nil
}

// Retrieve downloads one object's bytes.
func (s *S3Store) Retrieve(ctx context.Context, key string) ([]byte, error) {
	output, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("imagestore: get %q: %w", key, err)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("imagestore: read %q: %w", key, err)
	}
	return data, nil
}
