package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// application holds the shared dependencies and the resources that must be
// released on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Stores
	taskStore store.TaskStore
	blobStore store.BlobStore

	// Services
	taskService   service.TaskService
	uploadService service.UploadService

	// Backend clients shared between stores, created on first use
	aws *session.Session
	js  jetstream.JetStream

	// closers run in reverse order during cleanup
	closers []func() error
}

// newApplication connects the configured backends and builds the services.
// Resources opened before a failure are released before returning.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.init(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("Application initialized successfully",
		"store_backend", cfg.Store.Backend,
		"blob_backend", cfg.Blob.Backend)
	return app, nil
}

func (app *application) init(ctx context.Context) error {
	var err error

	app.taskStore, err = app.openTaskStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s task store: %w", app.config.Store.Backend, err)
	}

	app.blobStore, err = app.openBlobStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s blob store: %w", app.config.Blob.Backend, err)
	}

	mode, err := domain.ParseUpdateMode(app.config.Store.UpdateMode)
	if err != nil {
		return err
	}

	app.taskService, err = service.NewTaskService(app.taskStore, mode, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	app.uploadService, err = service.NewUploadService(app.blobStore, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create upload service: %w", err)
	}
	return nil
}

// onCleanup registers fn to run during cleanup.
func (app *application) onCleanup(fn func() error) {
	app.closers = append(app.closers, fn)
}

// Run serves HTTP until ctx is cancelled, then releases all resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error("Error releasing resource", "error", err)
		}
	}
	app.closers = nil

	app.logger.Info("Application shutdown completed")
}
