package memory

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/tasks-api/internal/store"
)

// Blob is a stored object.
type Blob struct {
	Data        []byte
	ContentType string
}

// BlobStore keeps uploaded objects in memory.
type BlobStore struct {
	mu      sync.RWMutex
	blobs   map[string]Blob
	baseURL string
	logger  *slog.Logger
}

var _ store.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates an empty BlobStore. Locations are baseURL + "/" + key;
// an empty baseURL yields memory:// locations.
func NewBlobStore(baseURL string, logger *slog.Logger) *BlobStore {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = "memory://blobs"
	}
	return &BlobStore{
		blobs:   make(map[string]Blob),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With(slog.String("component", "memory_blob_store")),
	}
}

// Put implements store.BlobStore.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", store.UploadError("put", err)
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.blobs[key] = Blob{Data: stored, ContentType: contentType}
	s.mu.Unlock()

	s.logger.Debug("blob stored", slog.String("key", key), slog.Int("size", len(data)))
	return s.baseURL + "/" + key, nil
}

// Get returns the object stored under key.
func (s *BlobStore) Get(key string) (Blob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.blobs[key]
	return blob, ok
}
