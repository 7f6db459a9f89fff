package manifest

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/crmnav/internal/errors"
)

// DefaultCacheControl keeps the manifest fresh at the edge.
const DefaultCacheControl = "no-cache"

// ObjectPutter is the subset of *s3.Client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads manifests to an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	p := manifest.NewPublisher(s3.NewFromConfig(cfg), "my-bucket", "crm/routes.json")
//	uri, err := p.Publish(ctx, manifest.FromRecords("/crm", routes.Table()))
type Publisher struct {
	client       ObjectPutter
	bucket       string
	key          string
	cacheControl string
	logger       *slog.Logger
}

// NewPublisher creates a publisher writing to bucket/key.
func NewPublisher(client ObjectPutter, bucket, key string) *Publisher {
	return &Publisher{
		client:       client,
		bucket:       bucket,
		key:          key,
		cacheControl: DefaultCacheControl,
		logger:       slog.Default().With("component", "manifest"),
	}
}

// NewS3Publisher creates a publisher backed by an S3 client built from the
// default AWS configuration chain. An empty region defers to that chain.
func NewS3Publisher(ctx context.Context, region, bucket, key string) (*Publisher, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("E402").
			WithDetail("Could not load AWS configuration").
			Wrap(err)
	}
	return NewPublisher(s3.NewFromConfig(cfg), bucket, key), nil
}

// WithCacheControl sets the Cache-Control header stored with the object.
func (p *Publisher) WithCacheControl(v string) *Publisher {
	p.cacheControl = v
	return p
}

// WithLogger sets the publisher logger.
func (p *Publisher) WithLogger(logger *slog.Logger) *Publisher {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// URI returns the s3:// location the publisher writes to.
func (p *Publisher) URI() string {
	return "s3://" + p.bucket + "/" + p.key
}

// Publish uploads m and returns its s3:// URI.
func (p *Publisher) Publish(ctx context.Context, m *Manifest) (string, error) {
	if p.bucket == "" || p.key == "" {
		return "", errors.New("E403").
			WithSuggestion("Set manifest.bucket in crmnav.json or CRMNAV_MANIFEST_BUCKET")
	}

	data, err := m.JSON()
	if err != nil {
		return "", err
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String(p.cacheControl),
		Metadata: map[string]string{
			"base":   m.Base,
			"routes": strconv.Itoa(len(m.Routes)),
		},
	})
	if err != nil {
		return "", errors.New("E402").
			WithDetail("PutObject " + p.URI() + " failed").
			Wrap(err)
	}

	p.logger.Info("manifest published", "uri", p.URI(), "routes", len(m.Routes), "bytes", len(data))
	return p.URI(), nil
}
