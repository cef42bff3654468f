package minio

import (
	"context"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// MakeBucketOptions represents options for creating a bucket
type MakeBucketOptions struct {
	// Region is the region where the bucket will be created
	Region string
}

// ObjectInfo represents object information
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified string
	ContentType  string
	Metadata     map[string]string
}

// BucketExists checks whether a bucket exists
func (c *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	if err := c.checkClosed(); err != nil {
		return false, err
	}

	if bucketName == "" {
		return false, WrapError("BucketExists", ErrInvalidBucketName, bucketName, "")
	}

	exists, err := c.client.BucketExists(ctx, bucketName)
	if err != nil {
		return false, WrapError("BucketExists", err, bucketName, "")
	}

	return exists, nil
}

// MakeBucket creates a new bucket
func (c *Client) MakeBucket(ctx context.Context, bucketName string, opts MakeBucketOptions) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	if bucketName == "" {
		return WrapError("MakeBucket", ErrInvalidBucketName, bucketName, "")
	}

	err := c.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
		Region: opts.Region,
	})
	if err != nil {
		return WrapError("MakeBucket", err, bucketName, "")
	}

	if c.logger != nil {
		c.logger.Info("bucket created successfully",
			zap.String("bucket", bucketName),
		)
	}

	return nil
}

// EnsureBucket creates the bucket when it does not already exist
func (c *Client) EnsureBucket(ctx context.Context, bucketName string) error {
	exists, err := c.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}

	if !exists {
		return c.MakeBucket(ctx, bucketName, MakeBucketOptions{})
	}

	return nil
}
