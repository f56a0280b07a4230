package store

import "context"

// BlobStore stores opaque file content under a key.
type BlobStore interface {
	// Put writes data under key and returns a URL from which it can be
	// retrieved. Failures match ErrUpload.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
