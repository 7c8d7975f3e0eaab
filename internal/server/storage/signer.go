// Package storage wraps the object-storage signing collaborator: producing
// time-limited writable URLs for direct client uploads. The bytes themselves
// never pass through this service.
package storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SignedUpload is a presigned PUT URL valid until ExpiresAt.
type SignedUpload struct {
	URL       string
	ExpiresAt time.Time
}

// Signer produces time-limited writable URLs for a bucket/key pair.
type Signer interface {
	SignUpload(ctx context.Context, bucket, key string) (*SignedUpload, error)
}

// Wrappers around the AWS SDK, replaceable in tests.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// S3Config holds credentials and endpoint settings for an S3-compatible
// backend (MinIO in development).
type S3Config struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	URLTTL       time.Duration
}

type S3Signer struct {
	cfg S3Config
}

func NewS3Signer(cfg S3Config) *S3Signer {
	return &S3Signer{cfg: cfg}
}

func (s *S3Signer) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.AccessKey,
			s.cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *S3Signer) SignUpload(ctx context.Context, bucket, key string) (*SignedUpload, error) {

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.cfg.URLTTL))

	if err != nil {
		return nil, err
	}

	return &SignedUpload{
		URL:       req.URL,
		ExpiresAt: time.Now().Add(s.cfg.URLTTL),
	}, nil
}
