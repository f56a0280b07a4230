// Package nats implements store.TaskStore on a JetStream key-value bucket
// and store.BlobStore on a JetStream object store bucket.
package nats
