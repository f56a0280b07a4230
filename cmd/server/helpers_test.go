package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// testConfig returns a valid configuration using the in-memory backends.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			LogLevel:        "debug",
			ShutdownTimeout: 5 * time.Second,
		},
		Store: config.StoreConfig{
			Backend:    config.BackendMemory,
			UpdateMode: "merge",
		},
		Blob: config.BlobConfig{
			Backend:        config.BackendMemory,
			MaxUploadBytes: 1 << 20,
		},
		DynamoDB: config.DynamoDBConfig{Table: "tasks-manager-table"},
		Redis:    config.RedisConfig{KeyPrefix: "tasks:"},
		NATS:     config.NATSConfig{KVBucket: "tasks", ObjectBucket: "uploads"},
	}
}

// newTestApp builds an application from cfg and releases it after the test.
func newTestApp(t *testing.T, cfg *config.Config) (*application, *logger.TestLogBuffer) {
	t.Helper()
	l, buf := logger.NewTestLogger(t)
	app, err := newApplication(context.Background(), cfg, l)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app, buf
}
