package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"

	"github.com/ErdunE/mira-astrology-companion/internal/ports/storage"
)

// Client обёртка над minio.Client для архива карт
type Client struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

func NewClient(client *minio.Client, bucket string, log *slog.Logger) storage.IObjectStorage {
	return &Client{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

func (c *Client) PutFile(ctx context.Context, path string, data []byte, contentType string) error {
	info, err := c.client.PutObject(ctx, c.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", path, err)
	}

	c.log.Debug("object stored", "bucket", c.bucket, "path", path, "size", info.Size)
	return nil
}

// GetFile отсутствие объекта возвращается как storage.ErrNotFound
func (c *Client) GetFile(ctx context.Context, path string) ([]byte, error) {
	object, err := c.client.GetObject(ctx, c.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, wrapNotFound(err, path)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, wrapNotFound(err, path)
	}

	return data, nil
}

func wrapNotFound(err error, path string) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return storage.ErrNotFound
	}
	return fmt.Errorf("failed to read object %s: %w", path, err)
}
