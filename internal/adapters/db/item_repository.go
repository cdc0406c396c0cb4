// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/stockroomhq/stockroom-be/internal/core/domain"
	"github.com/stockroomhq/stockroom-be/internal/core/ports"
)

// itemRepository implements ports.ItemRepository against the items table.
type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a postgres-backed item repository
func NewItemRepository(db *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "items")),
	}
}

// Create inserts a new item row.
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, name, description, photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.Photo,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	r.logger.DebugContext(ctx, "item saved",
		slog.String("id", item.ID),
		slog.String("name", item.Name))

	return nil
}

// List retrieves all items ordered by creation time. The in-memory backend
// lists in insertion order; ordering here makes the persistent backend
// deterministic but the cross-backend contract stays implementation-defined.
func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	query := `
		SELECT id, name, description, photo, created_at, updated_at
		FROM items
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}

// Get retrieves an item by id.
func (r *itemRepository) Get(ctx context.Context, id string) (*domain.Item, error) {
	query := `
		SELECT id, name, description, photo, created_at, updated_at
		FROM items
		WHERE id = $1`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// Update applies only the supplied fields with a conditional UPDATE, checks
// existence when no row was touched, then re-selects the result. The three
// steps are deliberately not wrapped in a transaction; interleaved writers
// can observe each other between them.
func (r *itemRepository) Update(ctx context.Context, id string, changes domain.ItemChanges) (*domain.Item, error) {
	if changes.Empty() {
		item, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return item, domain.ErrNoChanges
	}

	qb := squirrel.Update("items").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	if changes.Name != "" {
		qb = qb.Set("name", changes.Name)
	}
	if changes.Description != "" {
		qb = qb.Set("description", changes.Description)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check existence: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
		}
	}

	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.logger.DebugContext(ctx, "item updated", slog.String("id", id))
	return item, nil
}

// AttachPhoto overwrites the item's photo reference.
func (r *itemRepository) AttachPhoto(ctx context.Context, id string, filename string) error {
	query := `UPDATE items SET photo = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, filename, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to attach photo: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}

	r.logger.DebugContext(ctx, "photo attached",
		slog.String("id", id),
		slog.String("filename", filename))

	return nil
}

// Delete reads the item, then removes the row. Select-then-delete is not
// transactional; a photo attached between the two steps is orphaned on disk.
func (r *itemRepository) Delete(ctx context.Context, id string) (*domain.Item, error) {
	item, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}

	r.logger.InfoContext(ctx, "item deleted", slog.String("id", id))
	return item, nil
}

// scanItem scans an item row from either a pgx.Row or pgx.Rows.
func scanItem(row pgx.Row) (*domain.Item, error) {
	item := &domain.Item{}
	var photo sql.NullString

	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &photo,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if photo.Valid {
		item.Photo = &photo.String
	}

	return item, nil
}
