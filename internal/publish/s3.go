package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v4"
)

// S3Config configures the S3 (or MinIO) store.
type S3Config struct {
	Bucket          string
	Region          string // default us-east-1
	Endpoint        string // optional, e.g. a MinIO URL
	PathStyle       bool
	Prefix          string // optional key prefix
	AccessKeyID     string // optional; default credential chain otherwise
	SecretAccessKey string
	MaxRetries      uint64
}

// putObjectAPI is the subset of *s3.Client the store uses.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 publishes files as objects of a single bucket.
type S3 struct {
	client     putObjectAPI
	bucket     string
	prefix     string
	maxRetries uint64
	newBackOff func() backoff.BackOff
}

// NewS3 builds an S3 store from cfg using the default AWS config chain.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3WithClient(client, cfg), nil
}

func newS3WithClient(client putObjectAPI, cfg S3Config) *S3 {
	return &S3{
		client:     client,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		maxRetries: cfg.MaxRetries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxElapsedTime = time.Minute
			return b
		},
	}
}

func (s *S3) Driver() Driver { return DriverS3 }

// Put uploads data, retrying failed attempts with exponential backoff up to
// MaxRetries times. Context cancellation stops retrying.
func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	if s.prefix != "" {
		k = path.Join(s.prefix, k)
	}
	contentType := ContentType(k)

	op := func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(k),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType),
		})
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.maxRetries), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, k, err)
	}
	return nil
}
