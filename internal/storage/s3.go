// Package storage keeps knowledge-base snapshots in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const defaultPresignExpiry = 24 * time.Hour

// ErrObjectNotFound is returned by HeadObject for a missing key.
var ErrObjectNotFound = errors.New("object not found")

type S3ClientConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// UsePathStyle is required by MinIO and RustFS.
	UsePathStyle  bool
	PresignExpiry time.Duration
}

// Object is one upload. Metadata keys become x-amz-meta-* headers.
type Object struct {
	Key         string
	ContentType string
	Body        []byte
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key           string
	ContentLength int64
	ContentType   string
	ETag          string
	LastModified  time.Time
	Metadata      map[string]string
}

// S3Client is bound to a single bucket.
type S3Client struct {
	api           *s3.Client
	presign       *s3.PresignClient
	bucket        string
	presignExpiry time.Duration
}

func NewS3Client(ctx context.Context, cfg S3ClientConfig) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	expiry := cfg.PresignExpiry
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	return &S3Client{
		api:           api,
		presign:       s3.NewPresignClient(api),
		bucket:        cfg.Bucket,
		presignExpiry: expiry,
	}, nil
}

func (c *S3Client) Bucket() string {
	return c.bucket
}

// URI renders key as s3://bucket/key.
func (c *S3Client) URI(key string) string {
	return "s3://" + c.bucket + "/" + key
}

func (c *S3Client) PutObject(ctx context.Context, obj Object) error {
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Body),
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		Metadata:      obj.Metadata,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", c.URI(obj.Key), err)
	}
	return nil
}

// ListObjects returns every object under prefix, newest first.
func (c *S3Client) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	pages := s3.NewListObjectsV2Paginator(c.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", c.URI(prefix), err)
		}
		for _, o := range page.Contents {
			out = append(out, ObjectInfo{
				Key:           aws.ToString(o.Key),
				ContentLength: aws.ToInt64(o.Size),
				ETag:          aws.ToString(o.ETag),
				LastModified:  aws.ToTime(o.LastModified),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

func (c *S3Client) HeadObject(ctx context.Context, key string) (*ObjectInfo, error) {
	head, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, fmt.Errorf("%s: %w", c.URI(key), ErrObjectNotFound)
		}
		return nil, fmt.Errorf("head %s: %w", c.URI(key), err)
	}

	return &ObjectInfo{
		Key:           key,
		ContentLength: aws.ToInt64(head.ContentLength),
		ContentType:   aws.ToString(head.ContentType),
		ETag:          aws.ToString(head.ETag),
		LastModified:  aws.ToTime(head.LastModified),
		Metadata:      head.Metadata,
	}, nil
}

// GenerateDownloadURL presigns a GET for key.
func (c *S3Client) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(c.presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", c.URI(key), err)
	}
	return req.URL, nil
}

// EnsureBucket creates the bucket on first use.
func (c *S3Client) EnsureBucket(ctx context.Context) error {
	if _, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err == nil {
		return nil
	}

	_, err := c.api.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(c.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", c.bucket, err)
	}
	return nil
}
