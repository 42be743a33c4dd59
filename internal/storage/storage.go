package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/nhp-platform/catalog/internal/config"
)

// System defines the storage operations interface for blob storage.
// Implementations handle the underlying storage mechanism (filesystem, S3)
// while providing a consistent API for storing and retrieving binary data.
type System interface {
	// Store saves data at the specified key. If the key already exists,
	// its contents are overwritten.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte) error

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete deletes the data at the specified key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// Exists checks whether a key exists and is accessible.
	// Returns (false, nil) if the key does not exist.
	Exists(ctx context.Context, key string) (bool, error)
}

// New builds the storage System selected by the configuration.
func New(cfg *config.StorageConfig, logger *slog.Logger) (System, error) {
	switch cfg.Backend {
	case config.BackendS3:
		return NewS3(&cfg.S3, logger)
	case config.BackendFilesystem:
		return NewFilesystem(cfg.BasePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// cleanKey normalizes and validates a storage key. Keys are slash-separated
// relative paths; empty keys, absolute paths, and traversal outside the root
// are rejected.
func cleanKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	cleaned := path.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || strings.HasPrefix(cleaned, "/") {
		return "", ErrInvalidKey
	}

	return cleaned, nil
}
