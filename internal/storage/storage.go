package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage is the opaque binary-object store. Callers persist the returned
// URL onto the owning record; the store itself is never queried for
// business data.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	GetURL(ctx context.Context, path string) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	PublicRead bool   // Make files public
}

// NewStorage builds the backend selected by config.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewObjectStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
