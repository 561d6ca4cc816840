package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving, retrieving, and releasing
// binary objects. Delete is idempotent: releasing a key that no longer
// exists is not an error.
type ObjectStore interface {
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
