package main

import (
	"context"
	"fmt"

	awsdynamodb "github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/tasks-api/internal/config"
	dynamostore "github.com/phrazzld/tasks-api/internal/platform/dynamodb"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	natsstore "github.com/phrazzld/tasks-api/internal/platform/nats"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	redisstore "github.com/phrazzld/tasks-api/internal/platform/redis"
	s3store "github.com/phrazzld/tasks-api/internal/platform/s3"
	"github.com/phrazzld/tasks-api/internal/store"
)

// openTaskStore builds the record store selected by store.backend.
func (app *application) openTaskStore(ctx context.Context) (store.TaskStore, error) {
	cfg := app.config

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewTaskStore(app.logger), nil

	case config.BackendDynamoDB:
		sess, err := app.awsSession()
		if err != nil {
			return nil, err
		}
		tasks, err := dynamostore.NewTaskStore(awsdynamodb.New(sess), cfg.DynamoDB.Table, app.logger)
		if err != nil {
			return nil, err
		}
		// Local emulators start empty; real tables are provisioned out of band.
		if cfg.AWS.Endpoint != "" {
			if err := tasks.EnsureTable(ctx); err != nil {
				return nil, err
			}
		}
		return tasks, nil

	case config.BackendPostgres:
		db, err := openDatabase(ctx, cfg.Database, app.logger)
		if err != nil {
			return nil, err
		}
		app.onCleanup(db.Close)
		if cfg.Database.AutoMigrate {
			if err := postgres.Migrate(ctx, db, "up", app.logger); err != nil {
				return nil, err
			}
		}
		return postgres.NewPostgresTaskStore(db, app.logger), nil

	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.onCleanup(client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return redisstore.NewTaskStore(client, cfg.Redis.KeyPrefix, app.logger)

	case config.BackendNATS:
		js, err := app.jetStream()
		if err != nil {
			return nil, err
		}
		kv, err := natsstore.KeyValueBucket(ctx, js, cfg.NATS.KVBucket)
		if err != nil {
			return nil, err
		}
		return natsstore.NewTaskStore(kv, app.logger)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// openBlobStore builds the blob store selected by blob.backend.
func (app *application) openBlobStore(ctx context.Context) (store.BlobStore, error) {
	cfg := app.config

	switch cfg.Blob.Backend {
	case config.BackendMemory:
		return memory.NewBlobStore(cfg.Blob.PublicBaseURL, app.logger), nil

	case config.BackendS3:
		sess, err := app.awsSession()
		if err != nil {
			return nil, err
		}
		return s3store.NewBlobStore(s3manager.NewUploader(sess), cfg.Blob.Bucket, app.logger), nil

	case config.BackendNATS:
		js, err := app.jetStream()
		if err != nil {
			return nil, err
		}
		objects, err := natsstore.ObjectBucket(ctx, js, cfg.NATS.ObjectBucket)
		if err != nil {
			return nil, err
		}
		return natsstore.NewBlobStore(objects, cfg.NATS.ObjectBucket, cfg.Blob.PublicBaseURL, app.logger)

	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Blob.Backend)
	}
}

// jetStream returns the shared JetStream handle, connecting on first use.
func (app *application) jetStream() (jetstream.JetStream, error) {
	if app.js != nil {
		return app.js, nil
	}

	conn, js, err := natsstore.Connect(app.config.NATS.URL, natsgo.Name("tasks-api"))
	if err != nil {
		return nil, err
	}
	app.onCleanup(conn.Drain)
	app.js = js
	return js, nil
}
