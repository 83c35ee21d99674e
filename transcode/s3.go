// SPDX-License-Identifier: EPL-2.0

package transcode

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the location of an ffmpeg build in S3 or an S3-compatible
// store.
type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
}

// S3GetObjectAPI is the part of *s3.Client used by S3Source.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source downloads an ffmpeg build from an object store into CacheDir.
type S3Source struct {
	Client   S3GetObjectAPI
	Bucket   string
	Key      string
	CacheDir string
}

// NewS3Source creates the S3 client for cfg.
func NewS3Source(ctx context.Context, cfg S3Config, cacheDir string) (*S3Source, error) {
	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Source{
		Client:   s3.NewFromConfig(awsCfg, clientOpts...),
		Bucket:   cfg.Bucket,
		Key:      cfg.Key,
		CacheDir: cacheDir,
	}, nil
}

func (s *S3Source) Name() string { return "s3://" + s.Bucket + "/" + s.Key }

func (s *S3Source) Resolve(ctx context.Context) (string, error) {
	if s.Client == nil || s.Bucket == "" || s.Key == "" {
		return "", ErrNotConfigured
	}

	target := cachePath(s.CacheDir, path.Base(s.Key))
	if isExecutable(target) {
		return target, nil
	}

	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return "", fmt.Errorf("%w: get object: %w", ErrDownload, err)
	}
	defer out.Body.Close()

	return install(target, out.Body)
}
