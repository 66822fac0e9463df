package database

import (
	"context"
	"fmt"

	"shareit/internal/models"

	"github.com/Masterminds/squirrel"
)

var userColumns = []string{"id", "name", "email"}

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	insert := db.sq.Insert("users").
		Columns("name", "email").
		Values(user.Name, user.Email).
		Suffix("RETURNING id")

	var id int64
	if err := get(ctx, db, &id, insert); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return nil
}

func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := get(ctx, db, &user, db.sq.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (db *DB) GetUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := list(ctx, db, &users, db.sq.Select(userColumns...).From("users").OrderBy("id")); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// UpdateUser applies the non-nil fields of patch and returns the stored user.
func (db *DB) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	update := db.sq.Update("users").Where(squirrel.Eq{"id": id})
	changed := false
	if patch.Name != nil {
		update = update.Set("name", *patch.Name)
		changed = true
	}
	if patch.Email != nil {
		update = update.Set("email", *patch.Email)
		changed = true
	}

	if changed {
		result, err := exec(ctx, db, update)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrDuplicateEmail
			}
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
	}
	return db.GetUser(ctx, id)
}

// DeleteUser removes a user that nothing refers to. Bookings and comments keep the
// identity of their authors, so a referenced user is never deleted.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var refs int
	refQuery := tx.Rebind(`SELECT
            (SELECT COUNT(*) FROM items WHERE owner_id = ?) +
            (SELECT COUNT(*) FROM bookings WHERE booker_id = ?) +
            (SELECT COUNT(*) FROM comments WHERE author_id = ?) +
            (SELECT COUNT(*) FROM requests WHERE requestor_id = ?)`)
	if err := tx.GetContext(ctx, &refs, refQuery, id, id, id, id); err != nil {
		return fmt.Errorf("failed to count user references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("user %d: %w", id, ErrReferenced)
	}

	result, err := exec(ctx, tx, db.sq.Delete("users").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
