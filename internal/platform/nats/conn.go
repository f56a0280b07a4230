package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Connect dials url and returns the connection together with a JetStream
// handle. The caller owns the connection and must drain or close it.
func Connect(url string, opts ...nats.Option) (*nats.Conn, jetstream.JetStream, error) {
	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	return conn, js, nil
}

// KeyValueBucket opens the named bucket, creating it when absent.
func KeyValueBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	bucket, err := js.KeyValue(ctx, name)
	if err == nil {
		return bucket, nil
	}

	bucket, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Task records keyed by id",
		History:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create key-value bucket %q: %w", name, err)
	}
	return bucket, nil
}

// ObjectBucket opens the named object store, creating it when absent.
func ObjectBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.ObjectStore, error) {
	bucket, err := js.ObjectStore(ctx, name)
	if err == nil {
		return bucket, nil
	}

	bucket, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
		Bucket:      name,
		Description: "Uploaded files",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store bucket %q: %w", name, err)
	}
	return bucket, nil
}
