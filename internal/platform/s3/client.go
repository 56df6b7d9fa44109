package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// MetadataKey is the object key of the bucket ownership marker.
const MetadataKey = "slipway_metadata.json"

// BucketMetadata marks a bucket as holding state for a single cluster.
type BucketMetadata struct {
	Cluster   string `json:"cluster"`
	ManagedBy string `json:"managedBy"`
	CreatedAt string `json:"createdAt"`
}

// Client wraps the AWS SDK client for Hetzner Object Storage.
type Client struct {
	s3     *s3.Client
	region string
}

// NewClient builds a client for the given Object Storage endpoint using
// static credentials.
func NewClient(endpoint, region, accessKey, secretKey string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = false // Hetzner serves buckets virtual-hosted style
	})

	return &Client{s3: client, region: region}, nil
}

// EnsureBucket creates the bucket if it does not exist yet. A bucket we
// already own counts as success.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	_, err := c.s3.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if isBucketAlreadyOwned(err) {
			return nil
		}
		return fmt.Errorf("create bucket %q: %w", bucket, err)
	}
	return nil
}

// BucketExists reports whether the bucket exists and is accessible.
func (c *Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	return true, nil
}

// PutObject uploads data under the given key.
func (c *Client) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// GetObject downloads the object under the given key. An absent object
// surfaces as an error matched by IsNotFound.
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(result.Body); err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return buf.Bytes(), nil
}

// DeleteObject removes the object under the given key.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// WriteMetadata stamps the bucket as owned by the given cluster.
func (c *Client) WriteMetadata(ctx context.Context, bucket, cluster string) error {
	meta := BucketMetadata{
		Cluster:   cluster,
		ManagedBy: "slipway",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode bucket metadata: %w", err)
	}
	return c.PutObject(ctx, bucket, MetadataKey, data)
}

// GetMetadata reads the ownership marker. An unmarked bucket returns
// nil without error.
func (c *Client) GetMetadata(ctx context.Context, bucket string) (*BucketMetadata, error) {
	data, err := c.GetObject(ctx, bucket, MetadataKey)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var meta BucketMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode bucket metadata: %w", err)
	}
	return &meta, nil
}

// IsNotFound reports whether err means the bucket or object does not
// exist. Checks the typed SDK errors first, then falls back to API error
// codes for S3-compatible services that do not return the exact types.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound", "404":
			return true
		}
	}
	return false
}

func isBucketAlreadyOwned(err error) bool {
	if err == nil {
		return false
	}

	var owned *types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return true
	}
	var exists *types.BucketAlreadyExists
	if errors.As(err, &exists) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "BucketAlreadyOwnedByYou" || code == "BucketAlreadyExists"
	}
	return false
}
