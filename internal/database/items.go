package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shareit/internal/models"

	"github.com/Masterminds/squirrel"
)

type itemRow struct {
	ID          int64         `db:"id"`
	Name        string        `db:"name"`
	Description string        `db:"description"`
	Available   bool          `db:"available"`
	OwnerID     int64         `db:"owner_id"`
	RequestID   sql.NullInt64 `db:"request_id"`
}

func (r itemRow) toModel() *models.Item {
	item := &models.Item{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Available:   r.Available,
		OwnerID:     r.OwnerID,
	}
	if r.RequestID.Valid {
		id := r.RequestID.Int64
		item.RequestID = &id
	}
	return item
}

func toItems(rows []itemRow) []*models.Item {
	items := make([]*models.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toModel())
	}
	return items
}

func (db *DB) selectItems() squirrel.SelectBuilder {
	return db.sq.Select("id", "name", "description", "available", "owner_id", "request_id").From("items")
}

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	var requestID sql.NullInt64
	if item.RequestID != nil {
		requestID = sql.NullInt64{Int64: *item.RequestID, Valid: true}
	}

	insert := db.sq.Insert("items").
		Columns("name", "description", "available", "owner_id", "request_id").
		Values(item.Name, item.Description, item.Available, item.OwnerID, requestID).
		Suffix("RETURNING id")

	var id int64
	if err := get(ctx, db, &id, insert); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var row itemRow
	if err := get(ctx, db, &row, db.selectItems().Where(squirrel.Eq{"id": id})); err != nil {
		return nil, notFound(err, "item", id)
	}
	return row.toModel(), nil
}

// UpdateItem applies the non-nil fields of patch and returns the stored item.
func (db *DB) UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error) {
	if !patch.Empty() {
		update := db.sq.Update("items").Where(squirrel.Eq{"id": id})
		if patch.Name != nil {
			update = update.Set("name", *patch.Name)
		}
		if patch.Description != nil {
			update = update.Set("description", *patch.Description)
		}
		if patch.Available != nil {
			update = update.Set("available", *patch.Available)
		}

		result, err := exec(ctx, db, update)
		if err != nil {
			return nil, fmt.Errorf("failed to update item: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, fmt.Errorf("item %d: %w", id, ErrNotFound)
		}
	}
	return db.GetItem(ctx, id)
}

func (db *DB) GetOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error) {
	query := pageOf(db.selectItems().Where(squirrel.Eq{"owner_id": ownerID}).OrderBy("id"), page.From, page.Size)

	var rows []itemRow
	if err := list(ctx, db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get owner items: %w", err)
	}
	return toItems(rows), nil
}

// SearchItems finds available items whose name or description contains text,
// ignoring case.
func (db *DB) SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	query := db.selectItems().
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.Expr("LOWER(name) LIKE ?", pattern),
			squirrel.Expr("LOWER(description) LIKE ?", pattern),
		}).
		OrderBy("id")

	var rows []itemRow
	if err := list(ctx, db, &rows, pageOf(query, page.From, page.Size)); err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toItems(rows), nil
}

func (db *DB) GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	var rows []itemRow
	query := db.selectItems().Where(squirrel.Eq{"request_id": requestIDs}).OrderBy("id")
	if err := list(ctx, db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get items by requests: %w", err)
	}
	return toItems(rows), nil
}
