// Package publish uploads run summaries and status reports to S3 so
// dashboards and downstream consumers can read them without access to
// the processing host.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/obsforge-io/obsforge/log"
)

// S3Config holds configuration for the report publishing backend.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket (optional).
	Prefix string
	// Region is the AWS region (optional, uses default chain if empty).
	Region string
	// Endpoint is a custom S3 endpoint URL for S3-compatible providers
	// (e.g. MinIO on an HPC login node). Empty uses the default AWS endpoint.
	Endpoint string
	// UsePathStyle forces path-style addressing (bucket in path, not
	// subdomain). Required by most S3-compatible providers.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ParseS3Path parses a destination in "bucket/prefix" or "bucket" form.
func ParseS3Path(path string) (bucket, prefix string) {
	parts := strings.SplitN(path, "/", 2)
	bucket = parts[0]
	if len(parts) > 1 {
		prefix = parts[1]
	}
	return bucket, prefix
}

// objectPutter is the S3 surface Publisher needs. Satisfied by
// *s3.Client; tests substitute a recorder.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads report artifacts to one bucket/prefix.
type Publisher struct {
	client objectPutter
	cfg    S3Config
	logger *log.Logger
}

// New creates a Publisher using the AWS SDK default credential chain
// (env vars, shared config, IAM role).
func New(ctx context.Context, cfg S3Config, logger *log.Logger) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewLogger()
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = &endpoint
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return &Publisher{
		client: s3.NewFromConfig(awsConfig, s3Opts...),
		cfg:    cfg,
		logger: logger,
	}, nil
}

// newWithClient wires a pre-built client. For tests.
func newWithClient(client objectPutter, cfg S3Config, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Publisher{client: client, cfg: cfg, logger: logger}
}

// key joins the configured prefix with an object name.
func (p *Publisher) key(name string) string {
	if p.cfg.Prefix == "" {
		return name
	}
	return strings.TrimSuffix(p.cfg.Prefix, "/") + "/" + name
}

// PublishFile uploads one local file under its base name.
func (p *Publisher) PublishFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	return p.put(ctx, filepath.Base(path), data)
}

// PublishDir uploads every regular file directly under dir. Used after
// a run to push the summary and all status reports in one pass.
func (p *Publisher) PublishDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read report directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := p.PublishFile(ctx, filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) put(ctx context.Context, name string, data []byte) error {
	key := p.key(name)
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &p.cfg.Bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to s3://%s/%s: %w", name, p.cfg.Bucket, key, err)
	}
	p.logger.Info("published report object", map[string]any{
		"bucket": p.cfg.Bucket,
		"key":    key,
		"bytes":  len(data),
	})
	return nil
}
