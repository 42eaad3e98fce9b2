package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local serves objects from a directory tree, with buckets as top-level
// directories. Used for development and tests.
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) *Local {
	return &Local{baseDir: baseDir}
}

func (l *Local) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	path := filepath.Join(l.baseDir, bucket, filepath.FromSlash(key))

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
