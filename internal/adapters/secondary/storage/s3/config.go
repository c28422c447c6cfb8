package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config пустой Host выключает архив карт
type Config struct {
	Host      string `envconfig:"HOST"`       // s3.amazonaws.com или localhost:9000
	AccessKey string `envconfig:"ACCESS_KEY"` // пусто - ключи из AWS_* окружения (роль Lambda)
	SecretKey string `envconfig:"SECRET_KEY"`
	Region    string `envconfig:"REGION" default:"us-east-1"`
	Bucket    string `envconfig:"BUCKET" default:"mira-charts"`
	UseSSL    bool   `envconfig:"USE_SSL" default:"true"`
}

func (c *Config) Enabled() bool {
	return c != nil && c.Host != ""
}

// NewClient создаёт клиент и проверяет существование бакета
func (c *Config) NewClient(ctx context.Context) (*minio.Client, error) {
	creds := credentials.NewEnvAWS()
	if c.AccessKey != "" {
		creds = credentials.NewStaticV4(c.AccessKey, c.SecretKey, "")
	}

	client, err := minio.New(c.Host, &minio.Options{
		Creds:  creds,
		Secure: c.UseSSL,
		Region: c.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", c.Bucket)
	}

	return client, nil
}
