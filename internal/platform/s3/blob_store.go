// Package s3 implements store.BlobStore on an Amazon S3 bucket through the
// SDK's multipart-capable upload manager.
package s3

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const componentName = "s3_blob_store"

// BlobStore uploads objects into a single bucket.
type BlobStore struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	logger   *slog.Logger
}

var _ store.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates a BlobStore writing into bucket. An empty bucket is
// accepted here and reported by Put as store.ErrBucketNotConfigured.
func NewBlobStore(uploader s3manageriface.UploaderAPI, bucket string, logger *slog.Logger) *BlobStore {
	if uploader == nil {
		panic("uploader cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BlobStore{
		uploader: uploader,
		bucket:   bucket,
		logger:   logger.With(slog.String("component", componentName), slog.String("bucket", bucket)),
	}
}

// Put implements store.BlobStore and returns the object URL reported by S3.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	log := logger.FromContextForComponent(ctx, s.logger, componentName)

	if s.bucket == "" {
		log.Error("upload attempted without a bucket", slog.String("key", key))
		return "", store.ErrBucketNotConfigured
	}

	input := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	out, err := s.uploader.UploadWithContext(ctx, input)
	if err != nil {
		log.Error("failed to upload object",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return "", store.UploadError("put", err)
	}

	log.Debug("object uploaded",
		slog.String("key", key),
		slog.Int("size", len(data)),
		slog.String("location", out.Location))
	return out.Location, nil
}
