// internal/core/domain/item_test.go
package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
)

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    domain.Item
		wantErr bool
	}{
		{
			name: "valid_item",
			item: domain.Item{Name: "Forklift Battery", Description: "48V"},
		},
		{
			name: "name_only_is_valid",
			item: domain.Item{Name: "Forklift Battery"},
		},
		{
			name:    "missing_name",
			item:    domain.Item{Description: "48V"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				assert.Equal(t, "name is required", err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestItem_PrepareForStorage(t *testing.T) {
	t.Run("assigns_id_and_timestamps", func(t *testing.T) {
		item := domain.Item{Name: "Forklift Battery"}
		item.PrepareForStorage()

		assert.NotEmpty(t, item.ID)
		assert.False(t, item.CreatedAt.IsZero())
		assert.Equal(t, item.CreatedAt, item.UpdatedAt)
		assert.Equal(t, time.UTC, item.CreatedAt.Location())
	})

	t.Run("keeps_an_existing_id", func(t *testing.T) {
		item := domain.Item{ID: "fixed-id", Name: "Forklift Battery"}
		item.PrepareForStorage()

		assert.Equal(t, "fixed-id", item.ID)
	})

	t.Run("two_items_get_distinct_ids", func(t *testing.T) {
		a := domain.Item{Name: "A"}
		b := domain.Item{Name: "B"}
		a.PrepareForStorage()
		b.PrepareForStorage()

		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestItem_Photo(t *testing.T) {
	t.Run("no_photo", func(t *testing.T) {
		item := domain.Item{}
		assert.False(t, item.HasPhoto())
		assert.Empty(t, item.PhotoFilename())
	})

	t.Run("empty_reference_counts_as_no_photo", func(t *testing.T) {
		empty := ""
		item := domain.Item{Photo: &empty}
		assert.False(t, item.HasPhoto())
	})

	t.Run("with_photo", func(t *testing.T) {
		photo := "abc123.jpg"
		item := domain.Item{Photo: &photo}
		assert.True(t, item.HasPhoto())
		assert.Equal(t, "abc123.jpg", item.PhotoFilename())
	})
}

func TestItemChanges_Empty(t *testing.T) {
	assert.True(t, domain.ItemChanges{}.Empty())
	assert.False(t, domain.ItemChanges{Name: "x"}.Empty())
	assert.False(t, domain.ItemChanges{Description: "x"}.Empty())
}

func TestItemChanges_DecodeIgnoresUnknownFields(t *testing.T) {
	var changes domain.ItemChanges
	err := json.Unmarshal([]byte(`{"name":"New name","photo":"ignored.jpg"}`), &changes)
	require.NoError(t, err)
	assert.Equal(t, "New name", changes.Name)
	assert.Empty(t, changes.Description)
}

func TestItem_JSONShape(t *testing.T) {
	photo := "abc123.jpg"
	item := domain.Item{
		ID:          "id-1",
		Name:        "Forklift Battery",
		Description: "48V",
		Photo:       &photo,
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Field names are part of the API contract.
	for _, key := range []string{"id", "name", "description", "photo", "created_at", "updated_at"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, "abc123.jpg", decoded["photo"])
}
