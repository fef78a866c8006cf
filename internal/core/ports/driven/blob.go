package driven

import "context"

// BlobStore reads uploaded files from object storage.
type BlobStore interface {
	// Get returns the object body and its content type.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, string, error)
}
