// Package r2 implements the asset store on Cloudflare R2 through its
// S3-compatible API.
package r2

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"mediagraph/application/ports"
	apperrors "mediagraph/pkg/errors"
)

// Options configures the R2 client.
type Options struct {
	Endpoint        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the public bucket hostname used to build asset
	// URLs; when empty, URLs point at the endpoint path style.
	PublicBaseURL string
}

// Client stores assets in an R2 bucket.
type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	opts    Options
	logger  *zap.Logger
}

var _ ports.AssetStore = (*Client)(nil)

// New builds an R2-backed asset store. R2 ignores the region, but the SDK
// requires one.
func New(ctx context.Context, opts Options, logger *zap.Logger) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "loading storage credentials")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.Endpoint)
		o.UsePathStyle = true
	})

	return &Client{
		s3:      client,
		presign: s3.NewPresignClient(client),
		opts:    opts,
		logger:  logger,
	}, nil
}

// Upload stores the bytes under {folder}/{unix-ms}-{name} and returns the
// public URL of the object.
func (c *Client) Upload(ctx context.Context, data []byte, name, contentType, folder string) (*ports.UploadResult, error) {
	key := c.objectKey(folder, name)

	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, apperrors.NewExternalError("r2", err)
	}

	c.logger.Debug("asset uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return &ports.UploadResult{URL: c.publicURL(key), Key: key}, nil
}

// Delete removes an object. Deleting a missing key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.opts.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperrors.NewExternalError("r2", err)
	}
	return nil
}

// PresignUpload returns a pre-authorized PUT URL for direct client upload.
func (c *Client) PresignUpload(ctx context.Context, name, contentType, folder string, expires time.Duration) (*ports.UploadResult, error) {
	key := c.objectKey(folder, name)

	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.opts.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, apperrors.NewExternalError("r2", err)
	}

	return &ports.UploadResult{URL: req.URL, Key: key}, nil
}

// PresignDownload returns a pre-authorized GET URL for an existing object.
func (c *Client) PresignDownload(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.opts.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", apperrors.NewExternalError("r2", err)
	}
	return req.URL, nil
}

func (c *Client) objectKey(folder, name string) string {
	return fmt.Sprintf("%s/%d-%s", folder, time.Now().UnixMilli(), name)
}

func (c *Client) publicURL(key string) string {
	if c.opts.PublicBaseURL != "" {
		return strings.TrimSuffix(c.opts.PublicBaseURL, "/") + "/" + key
	}
	return strings.TrimSuffix(c.opts.Endpoint, "/") + "/" + c.opts.Bucket + "/" + key
}
