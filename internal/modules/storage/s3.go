package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/driftv8/gate-core/internal/config"
)

// ObjectStore stores blobs and hands out durable public URLs for them.
type ObjectStore interface {
	Put(ctx context.Context, objectKey string, payload []byte, contentType string) (string, error)
	DeleteByURL(ctx context.Context, rawURL string) error
}

// S3Store implements ObjectStore against S3 or an S3-compatible endpoint.
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// NewS3Store builds a store from static credentials. The bucket must allow
// public reads; stored objects are addressed by plain URLs, not presigned ones.
func NewS3Store(opts appcfg.S3Options) (*S3Store, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	accessKey := strings.TrimSpace(opts.AccessKeyID)
	secretKey := strings.TrimSpace(opts.SecretAccessKey)
	if bucket == "" || region == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	s3Opts := s3.Options{
		Region: region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		UsePathStyle: opts.PathStyleAccess,
	}

	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		endpoint = strings.TrimSuffix(endpoint, "/")
		s3Opts.BaseEndpoint = aws.String(endpoint)
	}

	publicBase, err := resolvePublicBase(opts, bucket, region, endpoint)
	if err != nil {
		return nil, err
	}

	return &S3Store{
		client:     s3.New(s3Opts),
		bucket:     bucket,
		publicBase: publicBase,
	}, nil
}

// Put uploads the payload and returns its public URL.
func (s *S3Store) Put(ctx context.Context, objectKey string, payload []byte, contentType string) (string, error) {
	key := normalizeObjectKey(objectKey)
	if key == "" {
		return "", fmt.Errorf("invalid object key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return s.publicBase + "/" + encodeObjectKey(key), nil
}

// DeleteByURL removes the object a previously issued URL points at.
func (s *S3Store) DeleteByURL(ctx context.Context, rawURL string) error {
	key, err := s.keyFromURL(rawURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

func (s *S3Store) keyFromURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, s.publicBase+"/") {
		return "", fmt.Errorf("url %q is not served from this store", rawURL)
	}
	encoded := strings.TrimPrefix(rawURL, s.publicBase+"/")

	parts := strings.Split(encoded, "/")
	for i, p := range parts {
		seg, err := url.PathUnescape(p)
		if err != nil {
			return "", fmt.Errorf("invalid object url %q", rawURL)
		}
		parts[i] = seg
	}
	key := strings.Join(parts, "/")
	if key == "" {
		return "", fmt.Errorf("invalid object url %q", rawURL)
	}
	return key, nil
}

func resolvePublicBase(opts appcfg.S3Options, bucket, region, endpoint string) (string, error) {
	if base := strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/"); base != "" {
		return base, nil
	}

	if endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region), nil
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid s3 endpoint: %s", endpoint)
	}
	if opts.PathStyleAccess {
		return endpoint + "/" + bucket, nil
	}
	return parsed.Scheme + "://" + bucket + "." + parsed.Host, nil
}

func normalizeObjectKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimPrefix(key, "/")
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return key
}

func encodeObjectKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
