package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PublicURL       string
	AccessKeyID     string
	SecretAccessKey string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client  objectPutter
	bucket  string
	baseURL string
}

// NewS3Store uses static credentials when both keys are set and the default
// AWS chain otherwise. A custom endpoint switches to path-style addressing
// for S3-compatible backends.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Store(client, cfg), nil
}

func newS3Store(client objectPutter, cfg S3Config) *S3Store {
	base := strings.TrimRight(cfg.PublicURL, "/")
	switch {
	case base != "":
	case cfg.Endpoint != "":
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: base}
}

func (s *S3Store) Put(ctx context.Context, obj Object) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(obj.Key),
		Body:        obj.Body,
		ContentType: aws.String(obj.ContentType),
	}
	if obj.Size > 0 {
		in.ContentLength = aws.Int64(obj.Size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", err
	}
	return s.baseURL + "/" + obj.Key, nil
}
