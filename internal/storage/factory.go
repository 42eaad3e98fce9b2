package storage

import (
	"context"
	"fmt"

	"github.com/orderhub/order-management/internal"
)

// FromConfig builds the storage backend named by the configuration.
func FromConfig(ctx context.Context, cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3(ctx, cfg.Region)
	case "local":
		return NewLocal(cfg.LocalDir), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
