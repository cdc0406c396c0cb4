// internal/core/services/item.go
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
	"github.com/stockroomhq/stockroom-be/internal/core/ports"
)

// ItemService orchestrates the item repository and the photo store.
type ItemService struct {
	repo   ports.ItemRepository
	photos ports.PhotoStore
	logger *slog.Logger
}

// Statically assert that *ItemService implements the ItemService interface.
var _ ports.ItemService = (*ItemService)(nil)

// NewItemService creates a new item service
func NewItemService(repo ports.ItemRepository, photos ports.PhotoStore, logger *slog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		photos: photos,
		logger: logger.With(slog.String("service", "items")),
	}
}

// Register creates an item and, when an upload accompanied the request,
// stores and attaches the photo. There is no compensation path: if the
// photo save fails after the insert, the item stays without a photo and
// the failure is surfaced.
func (s *ItemService) Register(ctx context.Context, name, description string, upload io.Reader, uploadExt string) (*domain.Item, error) {
	item := &domain.Item{
		Name:        name,
		Description: description,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	item.PrepareForStorage()

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to register item: %w", err)
	}

	s.logger.InfoContext(ctx, "item registered",
		slog.String("id", item.ID),
		slog.String("name", item.Name))

	if upload != nil {
		filename, err := s.photos.Save(ctx, upload, uploadExt)
		if err != nil {
			return nil, fmt.Errorf("failed to store photo: %w", err)
		}

		if err := s.repo.AttachPhoto(ctx, item.ID, filename); err != nil {
			return nil, fmt.Errorf("failed to attach photo: %w", err)
		}
		item.Photo = &filename
	}

	return item, nil
}

// List returns all items.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// Get returns the item with the given id.
func (s *ItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial update. domain.ErrNoChanges is passed through so
// the endpoint can respond with a distinct "no changes requested" message.
func (s *ItemService) Update(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error) {
	item, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return item, err
	}

	s.logger.InfoContext(ctx, "item updated", slog.String("id", id))
	return item, nil
}

// Delete removes the item, then disposes of its photo file. File removal is
// best-effort: a failure is logged and the deletion still reports success.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	item, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if item.HasPhoto() {
		if err := s.photos.Delete(ctx, item.PhotoFilename()); err != nil {
			s.logger.WarnContext(ctx, "failed to remove photo file",
				slog.String("id", id),
				slog.String("filename", item.PhotoFilename()),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "item deleted", slog.String("id", id))
	return nil
}

// ReplacePhoto stores the upload, points the item at it and disposes of the
// previous file, if any.
func (s *ItemService) ReplacePhoto(ctx context.Context, id string, upload io.Reader, uploadExt string) error {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	filename, err := s.photos.Save(ctx, upload, uploadExt)
	if err != nil {
		return fmt.Errorf("failed to store photo: %w", err)
	}

	if err := s.repo.AttachPhoto(ctx, id, filename); err != nil {
		return err
	}

	if item.HasPhoto() {
		if err := s.photos.Delete(ctx, item.PhotoFilename()); err != nil {
			s.logger.WarnContext(ctx, "failed to remove previous photo file",
				slog.String("id", id),
				slog.String("filename", item.PhotoFilename()),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "photo replaced",
		slog.String("id", id),
		slog.String("filename", filename))

	return nil
}

// GetPhoto resolves the item, then reads its photo bytes. An item without a
// photo reports domain.ErrPhotoNotFound; so does a reference whose file was
// removed out of band.
func (s *ItemService) GetPhoto(ctx context.Context, id string) ([]byte, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !item.HasPhoto() {
		return nil, fmt.Errorf("%w: item %s has no photo", domain.ErrPhotoNotFound, id)
	}

	return s.photos.Read(ctx, item.PhotoFilename())
}

// Search looks an item up by exact id match. Despite the name there is no
// text search; the id is the only key.
func (s *ItemService) Search(ctx context.Context, id string, includePhoto bool) (*domain.SearchResult, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &domain.SearchResult{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
	}

	if includePhoto && item.HasPhoto() {
		result.PhotoURL = fmt.Sprintf("/inventory/%s/photo", item.ID)
	}

	return result, nil
}
