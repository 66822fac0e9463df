package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"

	"github.com/Masterminds/squirrel"
)

type requestRow struct {
	ID          int64  `db:"id"`
	Description string `db:"description"`
	RequestorID int64  `db:"requestor_id"`
	CreatedTS   int64  `db:"created_ts"`
}

func (r requestRow) toModel() *models.ItemRequest {
	return &models.ItemRequest{
		ID:          r.ID,
		Description: r.Description,
		RequestorID: r.RequestorID,
		Created:     time.Unix(r.CreatedTS, 0),
	}
}

func toRequests(rows []requestRow) []*models.ItemRequest {
	requests := make([]*models.ItemRequest, 0, len(rows))
	for _, r := range rows {
		requests = append(requests, r.toModel())
	}
	return requests
}

func (db *DB) selectRequests() squirrel.SelectBuilder {
	return db.sq.Select("id", "description", "requestor_id", "created_ts").From("requests")
}

func (db *DB) CreateItemRequest(ctx context.Context, request *models.ItemRequest) error {
	insert := db.sq.Insert("requests").
		Columns("description", "requestor_id", "created_ts").
		Values(request.Description, request.RequestorID, request.Created.Unix()).
		Suffix("RETURNING id")

	var id int64
	if err := get(ctx, db, &id, insert); err != nil {
		return fmt.Errorf("failed to create item request: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetItemRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var row requestRow
	if err := get(ctx, db, &row, db.selectRequests().Where(squirrel.Eq{"id": id})); err != nil {
		return nil, notFound(err, "item request", id)
	}
	return row.toModel(), nil
}

// GetUserItemRequests returns the requests made by requestorID, newest first.
func (db *DB) GetUserItemRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	query := db.selectRequests().
		Where(squirrel.Eq{"requestor_id": requestorID}).
		OrderBy("created_ts DESC", "id DESC")

	var rows []requestRow
	if err := list(ctx, db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get item requests: %w", err)
	}
	return toRequests(rows), nil
}

// GetOtherItemRequests pages through the requests of everybody except requestorID.
func (db *DB) GetOtherItemRequests(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error) {
	query := db.selectRequests().
		Where(squirrel.NotEq{"requestor_id": requestorID}).
		OrderBy("created_ts DESC", "id DESC")

	var rows []requestRow
	if err := list(ctx, db, &rows, pageOf(query, page.From, page.Size)); err != nil {
		return nil, fmt.Errorf("failed to get item requests: %w", err)
	}
	return toRequests(rows), nil
}
