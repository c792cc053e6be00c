package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/tour-booking/internal/config"
)

// S3Exporter stores generated reports and hands out short-lived links.
type S3Exporter struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewS3Exporter returns nil when no bucket is configured.
func NewS3Exporter(cfg *config.Config) *S3Exporter {
	if cfg.S3Bucket == "" {
		return nil
	}

	opts := s3.Options{
		Region: cfg.S3Region,
	}
	if cfg.S3AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
		opts.UsePathStyle = true
	}

	client := s3.New(opts)
	return &S3Exporter{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.S3Bucket,
		ttl:     cfg.ExportURLTTL,
	}
}

func (e *S3Exporter) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	if _, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	req, err := e.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(e.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(e.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
