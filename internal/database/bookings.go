package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type bookingRow struct {
	ID         int64  `db:"id"`
	StartTS    int64  `db:"start_ts"`
	EndTS      int64  `db:"end_ts"`
	ItemID     int64  `db:"item_id"`
	BookerID   int64  `db:"booker_id"`
	Status     string `db:"status"`
	Version    int64  `db:"version"`
	ItemName   string `db:"item_name"`
	OwnerID    int64  `db:"owner_id"`
	BookerName string `db:"booker_name"`
}

func (r bookingRow) toModel() *models.Booking {
	return &models.Booking{
		ID:         r.ID,
		Start:      time.Unix(r.StartTS, 0),
		End:        time.Unix(r.EndTS, 0),
		ItemID:     r.ItemID,
		BookerID:   r.BookerID,
		Status:     models.BookingStatus(r.Status),
		Version:    r.Version,
		ItemName:   r.ItemName,
		OwnerID:    r.OwnerID,
		BookerName: r.BookerName,
	}
}

// selectBookings resolves the item name, owner and booker name by join.
func (db *DB) selectBookings() squirrel.SelectBuilder {
	return db.sq.Select(
		"b.id", "b.start_ts", "b.end_ts", "b.item_id", "b.booker_id", "b.status", "b.version",
		"i.name AS item_name", "i.owner_id AS owner_id", "u.name AS booker_name",
	).
		From("bookings b").
		Join("items i ON i.id = b.item_id").
		Join("users u ON u.id = b.booker_id")
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.StatusWaiting
	}

	insert := db.sq.Insert("bookings").
		Columns("start_ts", "end_ts", "item_id", "booker_id", "status", "version").
		Values(booking.Start.Unix(), booking.End.Unix(), booking.ItemID, booking.BookerID, string(booking.Status), 1).
		Suffix("RETURNING id")

	var id int64
	if err := get(ctx, db, &id, insert); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	booking.ID = id
	booking.Version = 1
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return db.getBooking(ctx, db, id)
}

func (db *DB) getBooking(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Booking, error) {
	var row bookingRow
	if err := get(ctx, q, &row, db.selectBookings().Where(squirrel.Eq{"b.id": id})); err != nil {
		return nil, notFound(err, "booking", id)
	}
	return row.toModel(), nil
}

// TransitionBooking moves booking id from status `from` to `to` in one transaction.
// The UPDATE is guarded by the expected source status, so of two concurrent transitions
// only one can succeed; the other gets ErrConcurrentModification. With rejectOverlap the
// move fails with ErrOverlap when another APPROVED booking of the same item intersects
// [start, end).
func (db *DB) TransitionBooking(ctx context.Context, id int64, from, to models.BookingStatus, rejectOverlap bool) (*models.Booking, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	booking, err := db.getBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if db.dialect.lockRows {
		lock := db.sq.Select("id").From("items").Where(squirrel.Eq{"id": booking.ItemID}).Suffix("FOR UPDATE")
		var itemID int64
		if err := get(ctx, tx, &itemID, lock); err != nil {
			return nil, fmt.Errorf("failed to lock item %d: %w", booking.ItemID, err)
		}
	}

	if booking.Status != from {
		return nil, fmt.Errorf("booking %d is %s: %w", id, booking.Status, ErrConcurrentModification)
	}

	if rejectOverlap {
		overlapping := db.sq.Select("COUNT(*)").From("bookings").Where(squirrel.And{
			squirrel.Eq{"item_id": booking.ItemID, "status": string(models.StatusApproved)},
			squirrel.NotEq{"id": booking.ID},
			squirrel.Lt{"start_ts": booking.End.Unix()},
			squirrel.Gt{"end_ts": booking.Start.Unix()},
		})
		var count int
		if err := get(ctx, tx, &count, overlapping); err != nil {
			return nil, fmt.Errorf("failed to check overlapping bookings: %w", err)
		}
		if count > 0 {
			return nil, fmt.Errorf("booking %d: %w", id, ErrOverlap)
		}
	}

	update := db.sq.Update("bookings").
		Set("status", string(to)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": id, "status": string(from)})
	result, err := exec(ctx, tx, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, fmt.Errorf("booking %d: %w", id, ErrConcurrentModification)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	booking.Status = to
	booking.Version++
	return booking, nil
}

// QueryBookings lists the bookings visible to filter.UserID in filter.Role, narrowed by
// filter.State, newest start first.
func (db *DB) QueryBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error) {
	query := db.selectBookings()

	switch filter.Role {
	case models.RoleBooker:
		query = query.Where(squirrel.Eq{"b.booker_id": filter.UserID})
	case models.RoleOwner:
		query = query.Where(squirrel.Eq{"i.owner_id": filter.UserID})
	default:
		return nil, fmt.Errorf("unknown booking role %q", filter.Role)
	}

	now := filter.Now.Unix()
	switch filter.State {
	case models.StateAll:
	case models.StateCurrent:
		query = query.Where(squirrel.LtOrEq{"b.start_ts": now}).Where(squirrel.GtOrEq{"b.end_ts": now})
	case models.StatePast:
		query = query.Where(squirrel.Lt{"b.end_ts": now})
	case models.StateFuture:
		query = query.Where(squirrel.Gt{"b.start_ts": now})
	case models.StateWaiting:
		query = query.Where(squirrel.Eq{"b.status": string(models.StatusWaiting)})
	case models.StateRejected:
		query = query.Where(squirrel.Eq{"b.status": string(models.StatusRejected)})
	default:
		return nil, fmt.Errorf("unknown booking state %q", filter.State)
	}

	query = pageOf(query.OrderBy("b.start_ts DESC", "b.id DESC"), filter.From, filter.Size)

	var rows []bookingRow
	if err := list(ctx, db, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}

	bookings := make([]*models.Booking, 0, len(rows))
	for _, r := range rows {
		bookings = append(bookings, r.toModel())
	}
	return bookings, nil
}

// GetLastBooking returns the latest APPROVED booking of the item that has started by now.
func (db *DB) GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := db.selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": string(models.StatusApproved)}).
		Where(squirrel.LtOrEq{"b.start_ts": now.Unix()}).
		OrderBy("b.start_ts DESC", "b.id DESC").
		Limit(1)
	return db.optionalBooking(ctx, query)
}

// GetNextBooking returns the earliest APPROVED booking of the item starting after now.
func (db *DB) GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error) {
	query := db.selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID, "b.status": string(models.StatusApproved)}).
		Where(squirrel.Gt{"b.start_ts": now.Unix()}).
		OrderBy("b.start_ts ASC", "b.id ASC").
		Limit(1)
	return db.optionalBooking(ctx, query)
}

func (db *DB) optionalBooking(ctx context.Context, query squirrel.SelectBuilder) (*models.Booking, error) {
	var row bookingRow
	if err := get(ctx, db, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return row.toModel(), nil
}

// HasFinishedBooking reports whether bookerID has an APPROVED booking of itemID that
// ended before now.
func (db *DB) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	query := db.sq.Select("COUNT(*)").From("bookings").Where(squirrel.And{
		squirrel.Eq{"item_id": itemID, "booker_id": bookerID, "status": string(models.StatusApproved)},
		squirrel.Lt{"end_ts": now.Unix()},
	})

	var count int
	if err := get(ctx, db, &count, query); err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}
