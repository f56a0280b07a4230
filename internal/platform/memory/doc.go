// Package memory provides process-local implementations of store.TaskStore
// and store.BlobStore for tests and local development.
package memory
