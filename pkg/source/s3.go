package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config selects the bucket holding the data files.
type S3Config struct {
	Bucket         string
	Prefix         string // key prefix, e.g. "dsomm/"
	Region         string
	Endpoint       string // for S3-compatible services
	AccessKeyID    string
	SecretKey      string
	ForcePathStyle bool
}

// S3Metrics observes S3 reads. A nil S3Metrics disables collection.
type S3Metrics interface {
	ObserveOperation(operation string, duration time.Duration, err error)
	RecordBytes(operation string, bytes int64)
}

// S3 reads data files from an S3 bucket.
type S3 struct {
	client  *s3.Client
	bucket  string
	prefix  string
	metrics S3Metrics
}

// NewS3 wraps an existing client.
func NewS3(client *s3.Client, bucket, prefix string) *S3 {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// WithMetrics sets the metrics sink and returns s.
func (s *S3) WithMetrics(m S3Metrics) *S3 {
	s.metrics = m
	return s
}

// NewS3FromConfig builds the client from the default AWS configuration chain,
// overridden by the fields set in cfg.
func NewS3FromConfig(ctx context.Context, cfg S3Config) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})
	return NewS3(client, cfg.Bucket, cfg.Prefix), nil
}

func (s *S3) ReadFile(ctx context.Context, name string) (data []byte, err error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveOperation("GetObject", time.Since(start), err)
			s.metrics.RecordBytes("GetObject", int64(len(data)))
		}
	}()

	key := s.prefix + strings.TrimPrefix(name, "/")
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("s3 get object %s: %w", key, err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read s3 object body: %w", err)
	}
	return data, nil
}

func (s *S3) String() string {
	return "s3://" + s.bucket + "/" + s.prefix
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "NoSuchKey") ||
		strings.Contains(msg, "NotFound") ||
		strings.Contains(msg, "404")
}
