// internal/core/domain/item.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item represents a single registered inventory item.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Photo       *string   `json:"photo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemChanges carries the fields of a partial update. An empty string means
// "leave the field alone" -- there is no way to clear a field to empty
// through an update, which matches the documented API contract.
type ItemChanges struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Empty reports whether the change set carries no effective fields.
func (c ItemChanges) Empty() bool {
	return c.Name == "" && c.Description == ""
}

// SearchResult is the payload of an exact-id search.
type SearchResult struct {
	ID          string
	Name        string
	Description string
	PhotoURL    string
}

// Validate performs domain validation on the item.
func (i *Item) Validate() error {
	if i.Name == "" {
		return &ValidationError{Field: "name"}
	}
	return nil
}

// PrepareForStorage assigns the identifier and timestamps ahead of the
// first insert.
func (i *Item) PrepareForStorage() {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}

// HasPhoto reports whether the item carries a photo reference.
func (i *Item) HasPhoto() bool {
	return i.Photo != nil && *i.Photo != ""
}

// PhotoFilename returns the referenced photo filename, or "" when the item
// has none.
func (i *Item) PhotoFilename() string {
	if i.Photo == nil {
		return ""
	}
	return *i.Photo
}
