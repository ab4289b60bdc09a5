package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultBaseURL = "https://s3.amazonaws.com"

type AppConfig struct {
	AWSRegion  string `required:"true"`
	IAMProfile string

	// Bucket maps the destination bucket name to the upload folder prefix
	// inside it. Exactly one entry; an empty prefix uploads to the bucket
	// root.
	Bucket       map[string]string `required:"true"`
	SourceFolder string            `required:"true"`
	Exclude      []string

	// Interval reruns the sync every N seconds when > 0. Zero means a
	// single pass.
	Interval int

	BaseURL   string `default:"https://s3.amazonaws.com"`
	PathStyle bool
	CDN       CDNConfig

	ACL          string `default:"public-read"`
	CacheControl string
	Metadata     map[string]string
	ExpiresDays  int

	ChunkSizeMB int `default:"8"`

	Compression CompressionPolicy
	MimeTypes   map[string]string

	Notify NotifyConfig
}

type CDNConfig struct {
	Enabled bool
	BaseURL string
}

// CompressionPolicy decides which assets are compressed before upload.
// Extensions carry the leading dot, e.g. ".css".
type CompressionPolicy struct {
	Algorithm  string
	Level      int `default:"6"`
	Extensions []string
}

type NotifyConfig struct {
	Region  string
	Profile string
	Topic   string
}

// Validate checks everything configor's required tags cannot express.
// Called eagerly after load so a broken config never starts a pass.
func (c *AppConfig) Validate() error {
	if len(c.Bucket) != 1 {
		return fmt.Errorf("%w: Bucket must map exactly one bucket name to an upload folder, got %d entries", ErrConfig, len(c.Bucket))
	}
	if c.ChunkSizeMB <= 0 {
		return fmt.Errorf("%w: ChunkSizeMB must be positive, got %d", ErrConfig, c.ChunkSizeMB)
	}
	switch c.Compression.Algorithm {
	case "", AlgorithmGzip, AlgorithmDeflate:
	default:
		return fmt.Errorf("%w: unknown compression algorithm %q", ErrConfig, c.Compression.Algorithm)
	}
	if c.CDN.Enabled && c.CDN.BaseURL == "" {
		return fmt.Errorf("%w: CDN enabled but CDN.BaseURL is not set", ErrConfig)
	}
	for i, ext := range c.Compression.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Compression.Extensions[i] = ext
	}
	return nil
}

// BucketName returns the destination bucket, with any trailing slashes a
// config author may have left on the mapping key trimmed off.
func (c AppConfig) BucketName() string {
	for name := range c.Bucket {
		return strings.TrimRight(name, "/")
	}
	return ""
}

// UploadFolder returns the key prefix inside the bucket, without
// surrounding slashes. Empty when assets go to the bucket root.
func (c AppConfig) UploadFolder() string {
	for _, folder := range c.Bucket {
		return strings.Trim(folder, "/")
	}
	return ""
}

func (c AppConfig) ClientFromConfig(ctx context.Context) (BucketClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(c.IAMProfile),
		config.WithRegion(c.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("%w: creating s3 client: %v", ErrConnection, err)
	}
	awsS3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = c.PathStyle
		if c.BaseURL != "" && c.BaseURL != defaultBaseURL {
			o.BaseEndpoint = aws.String(c.BaseURL)
		}
	})
	return &S3Client{Client: awsS3Client}, nil
}
