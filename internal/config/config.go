package config

import "time"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendNATS     = "nats"
	BackendS3       = "s3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Blob     BlobConfig     `mapstructure:"blob" validate:"required"`
	AWS      AWSConfig      `mapstructure:"aws"`
	DynamoDB DynamoDBConfig `mapstructure:"dynamodb"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// StoreConfig selects the task record backend and the update policy.
type StoreConfig struct {
	Backend    string `mapstructure:"backend" validate:"required,oneof=memory dynamodb postgres redis nats"`
	UpdateMode string `mapstructure:"update_mode" validate:"required,oneof=merge reset"`
}

// BlobConfig selects the upload backend.
type BlobConfig struct {
	Backend        string `mapstructure:"backend" validate:"required,oneof=memory s3 nats"`
	Bucket         string `mapstructure:"bucket"`
	PublicBaseURL  string `mapstructure:"public_base_url" validate:"omitempty,url"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" validate:"gt=0"`
}

// AWSConfig is shared by the DynamoDB and S3 backends. Endpoint points the
// SDK at a local emulator; empty credentials use the default chain.
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// DynamoDBConfig names the task table.
type DynamoDBConfig struct {
	Table string `mapstructure:"table"`
}

// DatabaseConfig configures the Postgres backend.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"omitempty,url"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// NATSConfig configures the JetStream key-value and object store backends.
type NATSConfig struct {
	URL          string `mapstructure:"url"`
	KVBucket     string `mapstructure:"kv_bucket"`
	ObjectBucket string `mapstructure:"object_bucket"`
}
