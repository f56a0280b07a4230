package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go/aws"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasks-api/internal/config"
	dynamostore "github.com/phrazzld/tasks-api/internal/platform/dynamodb"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	natsstore "github.com/phrazzld/tasks-api/internal/platform/nats"
	redisstore "github.com/phrazzld/tasks-api/internal/platform/redis"
	s3store "github.com/phrazzld/tasks-api/internal/platform/s3"
	"github.com/phrazzld/tasks-api/internal/service"
)

func runNATSServer(t *testing.T) string {
	t.Helper()
	ns, err := natsserver.NewServer(&natsserver.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
		NoLog:     true,
		NoSigs:    true,
	})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("nats server did not start")
	}
	t.Cleanup(ns.Shutdown)
	return ns.ClientURL()
}

func TestNewApplication_Memory(t *testing.T) {
	app, buf := newTestApp(t, testConfig())

	assert.IsType(t, &memory.TaskStore{}, app.taskStore)
	assert.IsType(t, &memory.BlobStore{}, app.blobStore)
	assert.NotNil(t, app.taskService)
	assert.NotNil(t, app.uploadService)
	logger.AssertLogContains(t, buf, "Application initialized successfully")
}

func TestNewApplication_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	app, _ := newTestApp(t, cfg)
	require.IsType(t, &redisstore.TaskStore{}, app.taskStore)

	task, err := app.taskService.Create(context.Background(), service.CreateTaskParams{Title: "Buy milk"})
	require.NoError(t, err)
	assert.True(t, mr.Exists("tasks:task:"+task.ID))
}

func TestNewApplication_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Store.Backend = config.BackendRedis
	cfg.Redis.Addr = addr

	l, _ := logger.NewTestLogger(t)
	app, err := newApplication(context.Background(), cfg, l)

	require.Error(t, err)
	assert.Nil(t, app)
	assert.ErrorContains(t, err, "failed to open redis task store")
}

func TestNewApplication_NATS(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = config.BackendNATS
	cfg.Blob.Backend = config.BackendNATS
	cfg.NATS.URL = runNATSServer(t)

	app, _ := newTestApp(t, cfg)
	require.IsType(t, &natsstore.TaskStore{}, app.taskStore)
	require.IsType(t, &natsstore.BlobStore{}, app.blobStore)

	ctx := context.Background()
	task, err := app.taskService.Create(ctx, service.CreateTaskParams{Title: "Buy milk"})
	require.NoError(t, err)
	got, err := app.taskService.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)

	file, err := app.uploadService.Upload(ctx, service.UploadFileParams{Filename: "a.txt", Data: []byte("hi")})
	require.NoError(t, err)
	assert.Contains(t, file.URL, "nats://uploads/")
}

func TestNewApplication_AWSBackendsBuildOffline(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = config.BackendDynamoDB
	cfg.Blob.Backend = config.BackendS3
	cfg.Blob.Bucket = "task-uploads"
	cfg.AWS.Region = "us-east-1"

	app, _ := newTestApp(t, cfg)

	assert.IsType(t, &dynamostore.TaskStore{}, app.taskStore)
	assert.IsType(t, &s3store.BlobStore{}, app.blobStore)
	require.NotNil(t, app.aws)
	assert.Equal(t, "us-east-1", aws.StringValue(app.aws.Config.Region))
}

func TestNewApplication_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "cassandra"

	l, _ := logger.NewTestLogger(t)
	_, err := newApplication(context.Background(), cfg, l)

	assert.ErrorContains(t, err, `unknown store backend "cassandra"`)
}

func TestCleanupRunsClosersInReverse(t *testing.T) {
	l, _ := logger.NewTestLogger(t)
	app := &application{config: testConfig(), logger: l}

	var order []int
	app.onCleanup(func() error { order = append(order, 1); return nil })
	app.onCleanup(func() error { order = append(order, 2); return assert.AnError })

	app.cleanup()
	app.cleanup()

	assert.Equal(t, []int{2, 1}, order)
}

func TestAWSConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := awsConfig(config.AWSConfig{Region: "eu-west-1"})
		assert.Equal(t, "eu-west-1", aws.StringValue(c.Region))
		assert.Nil(t, c.Endpoint)
		assert.False(t, aws.BoolValue(c.S3ForcePathStyle))
		assert.Nil(t, c.Credentials)
	})

	t.Run("local endpoint with static credentials", func(t *testing.T) {
		c := awsConfig(config.AWSConfig{
			Region:          "us-east-1",
			Endpoint:        "http://localhost:4566",
			AccessKeyID:     "test",
			SecretAccessKey: "test",
		})
		assert.Equal(t, "http://localhost:4566", aws.StringValue(c.Endpoint))
		assert.True(t, aws.BoolValue(c.S3ForcePathStyle))
		require.NotNil(t, c.Credentials)

		creds, err := c.Credentials.Get()
		require.NoError(t, err)
		assert.Equal(t, "test", creds.AccessKeyID)
	})
}

func TestRunMigrationsRequiresPostgres(t *testing.T) {
	l, _ := logger.NewTestLogger(t)
	err := runMigrations(context.Background(), testConfig(), l, "up")
	assert.ErrorIs(t, err, errMigrationsNeedPostgres)
}
