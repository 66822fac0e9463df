package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"

	"github.com/Masterminds/squirrel"
)

type commentRow struct {
	ID         int64  `db:"id"`
	Text       string `db:"text"`
	ItemID     int64  `db:"item_id"`
	AuthorID   int64  `db:"author_id"`
	AuthorName string `db:"author_name"`
	CreatedTS  int64  `db:"created_ts"`
}

func (r commentRow) toModel() *models.Comment {
	return &models.Comment{
		ID:         r.ID,
		Text:       r.Text,
		ItemID:     r.ItemID,
		AuthorID:   r.AuthorID,
		AuthorName: r.AuthorName,
		Created:    time.Unix(r.CreatedTS, 0),
	}
}

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	insert := db.sq.Insert("comments").
		Columns("text", "item_id", "author_id", "created_ts").
		Values(comment.Text, comment.ItemID, comment.AuthorID, comment.Created.Unix()).
		Suffix("RETURNING id")

	var id int64
	if err := get(ctx, db, &id, insert); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = id
	return nil
}

// GetItemComments returns the comments of an item, oldest first, with author names.
func (db *DB) GetItemComments(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	query := db.sq.Select("c.id", "c.text", "c.item_id", "c.author_id", "u.name AS author_name", "c.created_ts").
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(squirrel.Eq{"c.item_id": itemID}).
		OrderBy("c.created_ts", "c.id")

	var rows []commentRow
	if err := list(ctx, db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}

	comments := make([]*models.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.toModel())
	}
	return comments, nil
}
