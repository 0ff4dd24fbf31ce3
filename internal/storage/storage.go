package storage

import (
	"context"
	"fmt"

	"github.com/stepuplabz/market/internal/config"
)

// Store persists processed product images and yields a public URL or a
// path fragment the handler turns into one.
type Store interface {
	// Save writes the blob under name and returns the public location.
	// For the local driver the location is a relative path ("/uploads/x.webp")
	// that the handler prefixes with the request host.
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

func New(cfg *config.Config) (Store, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocal(cfg.UploadDir)
	case "s3":
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
