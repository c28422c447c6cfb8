package storage

import (
	"context"
	"errors"
)

// ErrNotFound объекта нет в бакете
var ErrNotFound = errors.New("object not found")

// IObjectStorage S3-совместимое хранилище (MinIO, AWS S3)
type IObjectStorage interface {
	PutFile(ctx context.Context, path string, data []byte, contentType string) error
	GetFile(ctx context.Context, path string) ([]byte, error)
}
