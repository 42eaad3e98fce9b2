package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when the requested object does not exist.
// Maintenance runs treat this as fatal: there is nothing to process.
var ErrObjectNotFound = errors.New("storage: object not found")

// Storage reads objects from a bucket-addressed object store.
type Storage interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
