// Package objectstore provides access to evidence files and generated
// reports in S3, addressed by s3:// URIs.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store wraps an S3 client, a presign client and the claims bucket.
type Store struct {
	S3        *s3.Client
	Presigner *s3.PresignClient
	Bucket    string
}

// New returns a Store for the given bucket.
func New(client *s3.Client, bucket string) *Store {
	return &Store{
		S3:        client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    bucket,
	}
}

// ParseURI splits an s3://bucket/key evidence reference.
func ParseURI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	if trimmed == uri {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed s3 uri: %q", uri)
	}
	return parts[0], parts[1], nil
}

// Fetch downloads the object an evidence URI points at and returns its bytes
// and content type.
func (s *Store) Fetch(ctx context.Context, uri string) ([]byte, string, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, "", err
	}
	out, err := s.S3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", uri, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", uri, err)
	}
	contentType := "application/octet-stream"
	if out.ContentType != nil && *out.ContentType != "" {
		contentType = *out.ContentType
	}
	return data, contentType, nil
}

// Put uploads an object to the claims bucket and returns its s3:// URI.
func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.S3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.Bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.Bucket, key), nil
}

// PresignGet issues a time-limited download link for an object in the claims
// bucket.
func (s *Store) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) { o.Expires = ttl })
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// UploadKey builds the storage key for an ingested file.
func UploadKey(folder, fileName string, now time.Time) string {
	return fmt.Sprintf("%s/%s_%s", folder, now.UTC().Format("20060102_150405"), fileName)
}

// ReportKey builds the storage key for a settlement report.
func ReportKey(claimID string) string {
	return fmt.Sprintf("settlements/%s_settlement_decision.pdf", claimID)
}
