// Package store defines the persistence contracts of the task service.
// TaskStore holds task records keyed by id and BlobStore holds uploaded
// files. Implementations live under internal/platform and report failures
// with the sentinel errors declared here, so callers never depend on a
// particular backend's error values.
package store
