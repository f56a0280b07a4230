// Package domain contains the core entities of the task service and the
// rules that keep them valid. It has no knowledge of HTTP, configuration or
// any storage backend.
package domain
