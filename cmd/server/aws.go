package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"github.com/phrazzld/tasks-api/internal/config"
)

// awsConfig translates the aws section into an SDK config. A custom
// endpoint (LocalStack, MinIO) switches S3 to path style addressing.
func awsConfig(cfg config.AWSConfig) *aws.Config {
	c := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		c = c.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	if cfg.AccessKeyID != "" {
		c = c.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))
	}
	return c
}

// awsSession returns the shared AWS session, creating it on first use.
func (app *application) awsSession() (*session.Session, error) {
	if app.aws != nil {
		return app.aws, nil
	}
	sess, err := session.NewSession(awsConfig(app.config.AWS))
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	app.aws = sess
	return sess, nil
}
