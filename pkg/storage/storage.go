package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/feichai0017/resume-analyzer/config"
	"github.com/feichai0017/resume-analyzer/pkg/logger"
	"github.com/feichai0017/resume-analyzer/pkg/storage/local"
	"github.com/feichai0017/resume-analyzer/pkg/storage/minio"
	"github.com/feichai0017/resume-analyzer/pkg/storage/s3"
)

// StorageType names an artifact backend.
type StorageType string

const (
	StorageTypeLocal StorageType = config.StorageLocal
	StorageTypeS3    StorageType = config.StorageS3
	StorageTypeMinio StorageType = config.StorageMinio
)

// ErrNotFound is wrapped by every backend when a key does not exist.
var ErrNotFound = fs.ErrNotExist

// Storage keeps analysis artifacts and uploads under slash separated keys.
type Storage interface {
	// Store writes the reader under key and returns the stored key.
	Store(ctx context.Context, reader io.Reader, key string) (string, error)

	// Get opens the object stored under key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// CleanupBefore removes objects last modified before threshold.
	CleanupBefore(ctx context.Context, threshold time.Time) error
}

// NewStorage builds the backend selected by cfg.Type.
func NewStorage(ctx context.Context, cfg *config.StorageConfig, log logger.Logger) (Storage, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeLocal:
		return local.NewLocalStorage(cfg.LocalDir, log)
	case StorageTypeS3:
		return s3.NewS3Storage(ctx, &cfg.S3, log)
	case StorageTypeMinio:
		return minio.NewMinioStorage(ctx, &cfg.Minio, log)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
