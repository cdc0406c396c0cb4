// internal/core/services/item_test.go
package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
	"github.com/stockroomhq/stockroom-be/internal/core/services"
	"github.com/stockroomhq/stockroom-be/test/helpers"
	"github.com/stockroomhq/stockroom-be/test/mocks"
)

func newItemService(t *testing.T) (*services.ItemService, *mocks.MockItemRepository, *mocks.MockPhotoStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockItemRepository(ctrl)
	photos := mocks.NewMockPhotoStore(ctrl)
	service := services.NewItemService(repo, photos, helpers.TestLogger())

	return service, repo, photos
}

func TestItemService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers_item_without_photo", func(t *testing.T) {
		service, repo, _ := newItemService(t)

		repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, item *domain.Item) error {
				assert.NotEmpty(t, item.ID)
				assert.False(t, item.CreatedAt.IsZero())
				assert.False(t, item.UpdatedAt.IsZero())
				return nil
			})

		item, err := service.Register(ctx, "Forklift Battery", "48V lead-acid", nil, "")
		require.NoError(t, err)
		assert.Equal(t, "Forklift Battery", item.Name)
		assert.Equal(t, "48V lead-acid", item.Description)
		assert.Nil(t, item.Photo)
	})

	t.Run("registers_item_with_photo", func(t *testing.T) {
		service, repo, photos := newItemService(t)
		upload := strings.NewReader("jpeg-bytes")

		repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		photos.EXPECT().Save(ctx, upload, ".jpg").Return("abc123.jpg", nil)
		repo.EXPECT().
			AttachPhoto(ctx, gomock.Any(), "abc123.jpg").
			Return(nil)

		item, err := service.Register(ctx, "Forklift Battery", "", upload, ".jpg")
		require.NoError(t, err)
		require.NotNil(t, item.Photo)
		assert.Equal(t, "abc123.jpg", *item.Photo)
	})

	t.Run("rejects_missing_name", func(t *testing.T) {
		service, _, _ := newItemService(t)

		item, err := service.Register(ctx, "", "description only", nil, "")
		assert.Nil(t, item)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("photo_save_failure_is_surfaced", func(t *testing.T) {
		service, repo, photos := newItemService(t)
		upload := strings.NewReader("jpeg-bytes")

		repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		photos.EXPECT().Save(ctx, upload, ".jpg").Return("", errors.New("disk full"))

		_, err := service.Register(ctx, "Forklift Battery", "", upload, ".jpg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store photo")
	})

	t.Run("repository_failure_is_wrapped", func(t *testing.T) {
		service, repo, _ := newItemService(t)

		repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("connection refused"))

		_, err := service.Register(ctx, "Forklift Battery", "", nil, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to register item")
	})
}

func TestItemService_Update(t *testing.T) {
	ctx := context.Background()
	testItem := helpers.CreateTestItem()

	t.Run("passes_changes_through", func(t *testing.T) {
		service, repo, _ := newItemService(t)
		changes := domain.ItemChanges{Name: "New name"}

		updated := *testItem
		updated.Name = "New name"
		repo.EXPECT().Update(ctx, testItem.ID, changes).Return(&updated, nil)

		item, err := service.Update(ctx, testItem.ID, changes)
		require.NoError(t, err)
		assert.Equal(t, "New name", item.Name)
	})

	t.Run("no_changes_signal_carries_the_item", func(t *testing.T) {
		service, repo, _ := newItemService(t)

		repo.EXPECT().
			Update(ctx, testItem.ID, domain.ItemChanges{}).
			Return(testItem, domain.ErrNoChanges)

		item, err := service.Update(ctx, testItem.ID, domain.ItemChanges{})
		assert.ErrorIs(t, err, domain.ErrNoChanges)
		require.NotNil(t, item)
		assert.Equal(t, testItem.ID, item.ID)
	})
}

func TestItemService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes_item_and_photo_file", func(t *testing.T) {
		service, repo, photos := newItemService(t)
		testItem := helpers.CreateTestItem(func(i *domain.Item) {
			photo := "abc123.jpg"
			i.Photo = &photo
		})

		repo.EXPECT().Delete(ctx, testItem.ID).Return(testItem, nil)
		photos.EXPECT().Delete(ctx, "abc123.jpg").Return(nil)

		require.NoError(t, service.Delete(ctx, testItem.ID))
	})

	t.Run("photo_file_removal_is_best_effort", func(t *testing.T) {
		service, repo, photos := newItemService(t)
		testItem := helpers.CreateTestItem(func(i *domain.Item) {
			photo := "abc123.jpg"
			i.Photo = &photo
		})

		repo.EXPECT().Delete(ctx, testItem.ID).Return(testItem, nil)
		photos.EXPECT().Delete(ctx, "abc123.jpg").Return(errors.New("permission denied"))

		// The file failure is logged, not surfaced.
		require.NoError(t, service.Delete(ctx, testItem.ID))
	})

	t.Run("item_without_photo_skips_the_store", func(t *testing.T) {
		service, repo, _ := newItemService(t)
		testItem := helpers.CreateTestItem()

		repo.EXPECT().Delete(ctx, testItem.ID).Return(testItem, nil)

		require.NoError(t, service.Delete(ctx, testItem.ID))
	})

	t.Run("missing_item", func(t *testing.T) {
		service, repo, _ := newItemService(t)

		repo.EXPECT().Delete(ctx, "missing-id").Return(nil, domain.ErrItemNotFound)

		assert.ErrorIs(t, service.Delete(ctx, "missing-id"), domain.ErrItemNotFound)
	})
}

func TestItemService_ReplacePhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces_and_disposes_of_previous_file", func(t *testing.T) {
		service, repo, photos := newItemService(t)
		testItem := helpers.CreateTestItem(func(i *domain.Item) {
			photo := "old.jpg"
			i.Photo = &photo
		})
		upload := strings.NewReader("new-bytes")

		repo.EXPECT().Get(ctx, testItem.ID).Return(testItem, nil)
		photos.EXPECT().Save(ctx, upload, ".png").Return("new.png", nil)
		repo.EXPECT().AttachPhoto(ctx, testItem.ID, "new.png").Return(nil)
		photos.EXPECT().Delete(ctx, "old.jpg").Return(nil)

		require.NoError(t, service.ReplacePhoto(ctx, testItem.ID, upload, ".png"))
	})

	t.Run("first_photo_has_nothing_to_dispose", func(t *testing.T) {
		service, repo, photos := newItemService(t)
		testItem := helpers.CreateTestItem()
		upload := strings.NewReader("new-bytes")

		repo.EXPECT().Get(ctx, testItem.ID).Return(testItem, nil)
		photos.EXPECT().Save(ctx, upload, ".jpg").Return("new.jpg", nil)
		repo.EXPECT().AttachPhoto(ctx, testItem.ID, "new.jpg").Return(nil)

		require.NoError(t, service.ReplacePhoto(ctx, testItem.ID, upload, ".jpg"))
	})

	t.Run("missing_item", func(t *testing.T) {
		service, repo, _ := newItemService(t)
		upload := strings.NewReader("new-bytes")

		repo.EXPECT().Get(ctx, "missing-id").Return(nil, domain.ErrItemNotFound)

		err := service.ReplacePhoto(ctx, "missing-id", upload, ".jpg")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestItemService_GetPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run("reads_photo_bytes", func(t *testing.T) {
		service, repo, photos := newItemService(t)
		testItem := helpers.CreateTestItem(func(i *domain.Item) {
			photo := "abc123.jpg"
			i.Photo = &photo
		})

		repo.EXPECT().Get(ctx, testItem.ID).Return(testItem, nil)
		photos.EXPECT().Read(ctx, "abc123.jpg").Return([]byte("jpeg-bytes"), nil)

		data, err := service.GetPhoto(ctx, testItem.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg-bytes"), data)
	})

	t.Run("item_without_photo", func(t *testing.T) {
		service, repo, _ := newItemService(t)
		testItem := helpers.CreateTestItem()

		repo.EXPECT().Get(ctx, testItem.ID).Return(testItem, nil)

		_, err := service.GetPhoto(ctx, testItem.ID)
		assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
	})

	t.Run("file_missing_on_disk", func(t *testing.T) {
		service, repo, photos := newItemService(t)
		testItem := helpers.CreateTestItem(func(i *domain.Item) {
			photo := "gone.jpg"
			i.Photo = &photo
		})

		repo.EXPECT().Get(ctx, testItem.ID).Return(testItem, nil)
		photos.EXPECT().Read(ctx, "gone.jpg").Return(nil, domain.ErrPhotoNotFound)

		_, err := service.GetPhoto(ctx, testItem.ID)
		assert.ErrorIs(t, err, domain.ErrPhotoNotFound)
	})
}

func TestItemService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("returns_name_and_description", func(t *testing.T) {
		service, repo, _ := newItemService(t)
		testItem := helpers.CreateTestItem()

		repo.EXPECT().Get(ctx, testItem.ID).Return(testItem, nil)

		result, err := service.Search(ctx, testItem.ID, false)
		require.NoError(t, err)
		assert.Equal(t, testItem.Name, result.Name)
		assert.Equal(t, testItem.Description, result.Description)
		assert.Empty(t, result.PhotoURL)
	})

	t.Run("includes_photo_url_when_asked_and_present", func(t *testing.T) {
		service, repo, _ := newItemService(t)
		testItem := helpers.CreateTestItem(func(i *domain.Item) {
			photo := "abc123.jpg"
			i.Photo = &photo
		})

		repo.EXPECT().Get(ctx, testItem.ID).Return(testItem, nil)

		result, err := service.Search(ctx, testItem.ID, true)
		require.NoError(t, err)
		assert.Equal(t, "/inventory/"+testItem.ID+"/photo", result.PhotoURL)
	})

	t.Run("no_photo_url_for_item_without_photo", func(t *testing.T) {
		service, repo, _ := newItemService(t)
		testItem := helpers.CreateTestItem()

		repo.EXPECT().Get(ctx, testItem.ID).Return(testItem, nil)

		result, err := service.Search(ctx, testItem.ID, true)
		require.NoError(t, err)
		assert.Empty(t, result.PhotoURL)
	})

	t.Run("missing_item", func(t *testing.T) {
		service, repo, _ := newItemService(t)

		repo.EXPECT().Get(ctx, "missing-id").Return(nil, domain.ErrItemNotFound)

		_, err := service.Search(ctx, "missing-id", false)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}
