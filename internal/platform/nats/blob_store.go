package nats

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const blobStoreComponent = "nats_blob_store"

// BlobStore implements store.BlobStore on a JetStream object store bucket.
type BlobStore struct {
	objects jetstream.ObjectStore
	baseURL string
	logger  *slog.Logger
}

var _ store.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates a BlobStore. Locations are baseURL + "/" + key, or
// nats://<bucket>/<key> when baseURL is empty.
func NewBlobStore(objects jetstream.ObjectStore, bucket, baseURL string, logger *slog.Logger) (*BlobStore, error) {
	if objects == nil {
		return nil, errors.New("object store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = "nats://" + bucket
	}
	return &BlobStore{
		objects: objects,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With(slog.String("component", blobStoreComponent), slog.String("bucket", bucket)),
	}, nil
}

// Put implements store.BlobStore.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	log := logger.FromContextForComponent(ctx, s.logger, blobStoreComponent)

	meta := jetstream.ObjectMeta{Name: key}
	if contentType != "" {
		meta.Headers = nats.Header{"Content-Type": []string{contentType}}
	}

	info, err := s.objects.Put(ctx, meta, bytes.NewReader(data))
	if err != nil {
		log.Error("failed to store object",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return "", store.UploadError("put", err)
	}

	log.Debug("object stored", slog.String("key", key), slog.Uint64("size", info.Size))
	return s.baseURL + "/" + key, nil
}
