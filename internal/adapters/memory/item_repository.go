// internal/adapters/memory/item_repository.go
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
	"github.com/stockroomhq/stockroom-be/internal/core/ports"
)

// ItemRepository implements ports.ItemRepository with in-process storage.
// A slice keeps insertion order for List; the map gives point lookups by id.
// All access is guarded by a single RWMutex.
type ItemRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.Item
}

var _ ports.ItemRepository = (*ItemRepository)(nil)

// NewItemRepository creates an empty in-memory repository.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{
		items: make(map[string]domain.Item),
	}
}

// Create inserts a new item. The id is assigned by the caller.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("duplicate item id: %s", item.ID)
	}

	r.items[item.ID] = *item
	r.order = append(r.order, item.ID)
	return nil
}

// List returns all items in insertion order.
func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Item, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.items[id])
	}
	return items, nil
}

// Get retrieves an item by id.
func (r *ItemRepository) Get(ctx context.Context, id string) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return &item, nil
}

// Update applies the non-empty fields of changes. Empty strings leave the
// field alone; a change set with no effective fields returns the current
// item with domain.ErrNoChanges.
func (r *ItemRepository) Update(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}

	if changes.Empty() {
		return &item, domain.ErrNoChanges
	}

	if changes.Name != "" {
		item.Name = changes.Name
	}
	if changes.Description != "" {
		item.Description = changes.Description
	}
	item.UpdatedAt = time.Now().UTC()

	r.items[id] = item
	return &item, nil
}

// AttachPhoto overwrites the item's photo reference.
func (r *ItemRepository) AttachPhoto(ctx context.Context, id string, filename string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("attach photo: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[id]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}

	item.Photo = &filename
	item.UpdatedAt = time.Now().UTC()
	r.items[id] = item
	return nil
}

// Delete removes the item and returns it as it was.
func (r *ItemRepository) Delete(ctx context.Context, id string) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("delete item: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}

	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return &item, nil
}
