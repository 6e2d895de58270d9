// Package storage implements the cloud asset store on S3-compatible
// services. Cover images, avatars and audio files all land here.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

// Client is the subset of the S3 API the store needs. Tests substitute a
// mock implementation.
type Client interface {
	PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3aws.DeleteObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3aws.DeleteObjectsInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
}

// Config contains the settings for the asset bucket. Endpoint and
// ForcePathStyle support S3-compatible services such as MinIO.
type Config struct {
	Bucket         string
	Region         string
	AccessKeyID    string
	SecretKey      string
	Endpoint       string
	BaseURL        string
	ForcePathStyle bool
}

// S3Store uploads and removes catalog assets. Thread-safe; one instance is
// shared by every service.
type S3Store struct {
	client  Client
	bucket  string
	baseURL string
}

// New builds an S3Store from configuration, constructing a real S3 client.
func New(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, errors.New("storage: bucket and region are required")
	}

	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID, cfg.SecretKey, "",
			)),
		)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3aws.NewFromConfig(awsCfg, func(o *s3aws.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps a pre-built client; used by tests.
func NewWithClient(client Client, cfg Config) *S3Store {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: baseURL}
}

// Save uploads the file under folder with a uuid-based object key and
// returns the asset reference.
func (s *S3Store) Save(ctx context.Context, file *multipart.FileHeader, folder string) (*domain.Asset, error) {
	if file == nil {
		return nil, errors.New("storage: nil file header")
	}

	folder = strings.Trim(folder, "/")
	if strings.Contains(folder, "..") {
		return nil, errors.New("storage: invalid folder")
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := folder + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	_, err = s.client.PutObject(ctx, &s3aws.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentLength: aws.Int64(file.Size),
		ContentType:   aws.String(contentType(file)),
	})
	if err != nil {
		return nil, classifyError(err, "save")
	}

	return &domain.Asset{ID: key, Path: s.baseURL + "/" + key}, nil
}

// Delete removes a single object. Unknown keys are not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3aws.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return classifyError(err, "delete")
	}
	return nil
}

// DeleteFolder removes every object under prefix, batching deletes the way
// the S3 API expects (up to 1000 keys per call).
func (s *S3Store) DeleteFolder(ctx context.Context, prefix string) error {
	prefix = strings.Trim(prefix, "/") + "/"

	var continuation *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3aws.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return classifyError(err, "list")
		}

		if len(page.Contents) > 0 {
			objects := make([]types.ObjectIdentifier, 0, len(page.Contents))
			for _, obj := range page.Contents {
				objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
			}
			_, err = s.client.DeleteObjects(ctx, &s3aws.DeleteObjectsInput{
				Bucket: aws.String(s.bucket),
				Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
			})
			if err != nil {
				return classifyError(err, "delete folder")
			}
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			return nil
		}
		continuation = page.NextContinuationToken
	}
}

func contentType(file *multipart.FileHeader) string {
	if ct := file.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(file.Filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// classifyError keeps missing-object deletes silent and wraps everything
// else with the failed operation.
func classifyError(err error, operation string) error {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
		return nil
	}
	return fmt.Errorf("storage %s: %w", operation, err)
}
