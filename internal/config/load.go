package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so server.port is
// read from TASKS_SERVER_PORT.
const EnvPrefix = "TASKS"

var defaults = map[string]any{
	"server.port":             8080,
	"server.log_level":        "info",
	"server.shutdown_timeout": "15s",

	"store.backend":     BackendMemory,
	"store.update_mode": "merge",

	"blob.backend":          BackendMemory,
	"blob.bucket":           "",
	"blob.public_base_url":  "",
	"blob.max_upload_bytes": 10 << 20,

	"aws.region":            "",
	"aws.endpoint":          "",
	"aws.access_key_id":     "",
	"aws.secret_access_key": "",

	"dynamodb.table": "tasks-manager-table",

	"database.url":            "",
	"database.auto_migrate":   false,
	"database.max_open_conns": 10,

	"redis.addr":       "",
	"redis.password":   "",
	"redis.db":         0,
	"redis.key_prefix": "tasks:",

	"nats.url":           "",
	"nats.kv_bucket":     "tasks",
	"nats.object_bucket": "uploads",
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory or ./config, and environment variables, in increasing
// order of precedence. The result is validated before it is returned.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the settings required by the
// selected backends.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	var problems []string
	require := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch c.Store.Backend {
	case BackendDynamoDB:
		require(c.AWS.Region != "", "aws.region is required for the dynamodb store")
		require(c.DynamoDB.Table != "", "dynamodb.table is required for the dynamodb store")
	case BackendPostgres:
		require(c.Database.URL != "", "database.url is required for the postgres store")
	case BackendRedis:
		require(c.Redis.Addr != "", "redis.addr is required for the redis store")
	case BackendNATS:
		require(c.NATS.URL != "", "nats.url is required for the nats store")
		require(c.NATS.KVBucket != "", "nats.kv_bucket is required for the nats store")
	}

	switch c.Blob.Backend {
	case BackendS3:
		require(c.AWS.Region != "", "aws.region is required for the s3 blob store")
		require(c.Blob.Bucket != "", "blob.bucket is required for the s3 blob store")
	case BackendNATS:
		require(c.NATS.URL != "", "nats.url is required for the nats blob store")
		require(c.NATS.ObjectBucket != "", "nats.object_bucket is required for the nats blob store")
	}

	require((c.AWS.AccessKeyID == "") == (c.AWS.SecretAccessKey == ""),
		"aws.access_key_id and aws.secret_access_key must be set together")

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}
