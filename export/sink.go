// Package export is the multiplexed, line-rotated exporter spec §4.10
// describes: open() -> export_item(record) -> close(), routing each
// record by its "type" field to a per-type writer that either rotates
// fixed-size files or accumulates into a single file. Grounded on
// original_source/blockchainetl/jobs/exporters/{multi_item_exporter,
// buffered_item_exporter}.py.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Sink is the storage destination spec §1 calls out as "out of scope,
// specified only at their interface" — local filesystem and S3 are the
// two concrete bindings that give the aws-sdk-go dependency somewhere
// real to run.
type Sink interface {
	Write(ctx context.Context, path string, data []byte) error
}

// LocalSink writes under a root directory on the local filesystem,
// creating parent directories as needed.
type LocalSink struct {
	Root string
}

func (s LocalSink) Write(ctx context.Context, path string, data []byte) error {
	full := filepath.Join(s.Root, path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("export: mkdir %s: %w", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", full, err)
	}
	return nil
}

// S3Sink uploads under a bucket/prefix via the S3 managed uploader,
// which chunks large rotated files into multipart uploads automatically.
type S3Sink struct {
	Bucket   string
	Prefix   string
	uploader *s3manager.Uploader
}

// NewS3Sink opens a session against the default AWS credential chain
// (environment, shared config, or instance role), the same resolution
// order aws-sdk-go's session.NewSession already implements.
func NewS3Sink(bucket, prefix string) (*S3Sink, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("export: new aws session: %w", err)
	}
	return &S3Sink{
		Bucket:   bucket,
		Prefix:   prefix,
		uploader: s3manager.NewUploader(sess),
	}, nil
}

func (s *S3Sink) Write(ctx context.Context, path string, data []byte) error {
	key := filepath.Join(s.Prefix, path)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("export: s3 upload %s: %w", key, err)
	}
	return nil
}
