// Package service implements the task and upload use cases on top of the
// store interfaces. Services stamp ids and timestamps, apply the update
// policy and wrap failures in typed errors; they keep no state between calls.
package service
