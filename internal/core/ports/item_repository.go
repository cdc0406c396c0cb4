// internal/core/ports/item_repository.go
package ports

import (
	"context"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
)

// ItemRepository defines the persistence port for inventory items.
// Two adapters implement it: the in-memory store and the postgres store.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)

	// Update applies only the fields present and non-empty in changes and
	// returns the resulting item. When changes is empty the current item is
	// returned alongside domain.ErrNoChanges.
	Update(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error)

	// AttachPhoto overwrites the photo reference for the item.
	AttachPhoto(ctx context.Context, id string, filename string) error

	// Delete removes the item and returns it as it was, so the caller can
	// dispose of the referenced photo file.
	Delete(ctx context.Context, id string) (*domain.Item, error)
}
