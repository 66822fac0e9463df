package database

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: fmt.Sprintf("%s@example.com", name)}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createItem(t *testing.T, db *DB, ownerID int64, name string) *models.Item {
	t.Helper()
	item := &models.Item{Name: name, Description: name + " description", Available: true, OwnerID: ownerID}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func createBooking(t *testing.T, db *DB, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{Start: start, End: end, ItemID: itemID, BookerID: bookerID, Status: status}
	require.NoError(t, db.CreateBooking(context.Background(), booking))
	return booking
}

// baseTime is second-aligned so stored and in-memory values compare equal.
func baseTime() time.Time {
	return time.Date(2030, time.March, 10, 12, 0, 0, 0, time.Local)
}
