package config

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
)

const (
	// EnvStorageBackend overrides the storage backend selection.
	EnvStorageBackend = "STORAGE_BACKEND"

	// EnvStorageBasePath overrides the filesystem storage base path.
	EnvStorageBasePath = "STORAGE_BASE_PATH"

	// EnvStorageMaxUploadSize overrides the maximum accepted upload size.
	EnvStorageMaxUploadSize = "STORAGE_MAX_UPLOAD_SIZE"

	// EnvStorageS3Endpoint overrides the S3 endpoint URL.
	EnvStorageS3Endpoint = "STORAGE_S3_ENDPOINT"

	// EnvStorageS3Region overrides the S3 region.
	EnvStorageS3Region = "STORAGE_S3_REGION"

	// EnvStorageS3Bucket overrides the S3 bucket name.
	EnvStorageS3Bucket = "STORAGE_S3_BUCKET"

	// EnvStorageS3AccessKey overrides the S3 access key.
	EnvStorageS3AccessKey = "STORAGE_S3_ACCESS_KEY"

	// EnvStorageS3SecretKey overrides the S3 secret key.
	EnvStorageS3SecretKey = "STORAGE_S3_SECRET_KEY"
)

// Storage backend identifiers.
const (
	BackendFilesystem = "filesystem"
	BackendS3         = "s3"
)

// S3Config contains S3-compatible object storage settings.
type S3Config struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// StorageConfig contains blob storage configuration.
type StorageConfig struct {
	// Backend selects the storage implementation: filesystem or s3.
	Backend string `toml:"backend"`

	// BasePath is the root directory for filesystem storage.
	BasePath string `toml:"base_path"`

	// MaxUploadSize is a human-readable size limit for uploaded assets.
	MaxUploadSize    string   `toml:"max_upload_size"`
	S3               S3Config `toml:"s3"`
	maxUploadSizeVal int64
}

// MaxUploadSizeBytes returns the parsed upload size limit in bytes.
func (c *StorageConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the storage configuration.
func (c *StorageConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *StorageConfig) Merge(overlay *StorageConfig) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.S3.Endpoint != "" {
		c.S3.Endpoint = overlay.S3.Endpoint
	}
	if overlay.S3.Region != "" {
		c.S3.Region = overlay.S3.Region
	}
	if overlay.S3.Bucket != "" {
		c.S3.Bucket = overlay.S3.Bucket
	}
	if overlay.S3.AccessKey != "" {
		c.S3.AccessKey = overlay.S3.AccessKey
	}
	if overlay.S3.SecretKey != "" {
		c.S3.SecretKey = overlay.S3.SecretKey
	}
}

func (c *StorageConfig) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFilesystem
	}
	if c.BasePath == "" {
		c.BasePath = ".data/blobs"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *StorageConfig) loadEnv() {
	if v := os.Getenv(EnvStorageBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvStorageBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvStorageMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvStorageS3Endpoint); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv(EnvStorageS3Region); v != "" {
		c.S3.Region = v
	}
	if v := os.Getenv(EnvStorageS3Bucket); v != "" {
		c.S3.Bucket = v
	}
	if v := os.Getenv(EnvStorageS3AccessKey); v != "" {
		c.S3.AccessKey = v
	}
	if v := os.Getenv(EnvStorageS3SecretKey); v != "" {
		c.S3.SecretKey = v
	}
}

func (c *StorageConfig) validate() error {
	switch c.Backend {
	case BackendFilesystem:
		if c.BasePath == "" {
			return fmt.Errorf("base_path required for filesystem backend")
		}
	case BackendS3:
		if c.S3.Endpoint == "" || c.S3.Bucket == "" {
			return fmt.Errorf("s3 endpoint and bucket required for s3 backend")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			return fmt.Errorf("s3 credentials required for s3 backend")
		}
	default:
		return fmt.Errorf("invalid backend: %s (must be filesystem or s3)", c.Backend)
	}

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	c.maxUploadSizeVal = size

	return nil
}
