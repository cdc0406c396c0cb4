// internal/core/ports/item_service.go
package ports

import (
	"context"
	"io"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
)

// ItemService defines the application service port for inventory.
// This interface is implemented by the application service and mocked in
// handler tests.
type ItemService interface {
	// Register creates an item and, when upload is non-nil, stores the
	// accompanying photo and attaches it. uploadExt is the original
	// filename's extension and may be empty.
	Register(ctx context.Context, name, description string, upload io.Reader, uploadExt string) (*domain.Item, error)

	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Update(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error)
	Delete(ctx context.Context, id string) error

	// ReplacePhoto stores the upload, points the item at it and disposes of
	// the previous photo file, if any.
	ReplacePhoto(ctx context.Context, id string, upload io.Reader, uploadExt string) error

	// GetPhoto returns the raw photo bytes for the item.
	GetPhoto(ctx context.Context, id string) ([]byte, error)

	// Search looks an item up by exact id. When includePhoto is set and the
	// item has a photo, the result carries the photo reference URL.
	Search(ctx context.Context, id string, includePhoto bool) (*domain.SearchResult, error)
}
