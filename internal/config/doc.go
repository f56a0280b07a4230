// Package config loads and validates the service configuration from
// defaults, an optional config.yaml and TASKS_ prefixed environment
// variables.
package config
