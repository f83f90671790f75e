package storage

import (
	"errors"
	"strings"

	"github.com/fielmedina/backend/internal/pkg/env"
)

// Storage drivers
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// Config holds the storage backend configuration
type Config struct {
	Driver    string
	MediaRoot string

	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	KeyPrefix       string
}

// LoadConfig loads storage configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Driver:          strings.ToLower(env.GetEnv("STORAGE_DRIVER", DriverLocal)),
		MediaRoot:       env.GetEnv("MEDIA_ROOT", "upload"),
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		KeyPrefix:       strings.Trim(env.GetEnv("S3_KEY_PREFIX", ""), "/"),
	}

	switch config.Driver {
	case DriverLocal:
		if config.MediaRoot == "" {
			return nil, errors.New("MEDIA_ROOT is required for the local storage driver")
		}
	case DriverS3:
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required for the s3 storage driver")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required for the s3 storage driver")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required for the s3 storage driver")
		}
	default:
		return nil, errors.New("STORAGE_DRIVER must be local or s3")
	}

	return config, nil
}

// IsLocal returns true if media are written to the local filesystem
func (c *Config) IsLocal() bool {
	return c.Driver == DriverLocal
}
