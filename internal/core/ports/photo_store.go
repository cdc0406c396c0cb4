// internal/core/ports/photo_store.go
package ports

import (
	"context"
	"io"
)

// PhotoStore defines the port for photo byte storage. The item repository
// holds only filename references; this store owns the bytes.
type PhotoStore interface {
	// Save persists the upload under a freshly generated filename inside
	// the cache directory and returns that filename. ext carries the
	// original upload's extension (including the dot) and may be empty.
	Save(ctx context.Context, r io.Reader, ext string) (string, error)

	// Read returns the raw bytes of a stored photo, or
	// domain.ErrPhotoNotFound when no file exists under that name.
	Read(ctx context.Context, filename string) ([]byte, error)

	// Delete removes a stored photo. Callers treat failures as best-effort
	// and log rather than surface them.
	Delete(ctx context.Context, filename string) error
}
