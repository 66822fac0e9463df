package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	booker := createUser(t, db, "booker")
	item := createItem(t, db, owner.ID, "Drill")

	start := baseTime()
	booking := createBooking(t, db, item.ID, booker.ID, start, start.Add(24*time.Hour), "")
	assert.Equal(t, models.StatusWaiting, booking.Status)
	assert.Equal(t, int64(1), booking.Version)

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, got.Start.Equal(start))
	assert.True(t, got.End.Equal(start.Add(24*time.Hour)))
	assert.Equal(t, models.StatusWaiting, got.Status)
	assert.Equal(t, "Drill", got.ItemName)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, "booker", got.BookerName)

	_, err = db.GetBooking(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	booker := createUser(t, db, "booker")
	item := createItem(t, db, owner.ID, "Drill")
	start := baseTime()
	booking := createBooking(t, db, item.ID, booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	approved, err := db.TransitionBooking(ctx, booking.ID, models.StatusWaiting, models.StatusApproved, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, int64(2), approved.Version)

	stored, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, int64(2), stored.Version)

	// повторный переход из WAITING уже невозможен
	_, err = db.TransitionBooking(ctx, booking.ID, models.StatusWaiting, models.StatusRejected, false)
	assert.ErrorIs(t, err, ErrConcurrentModification)

	_, err = db.TransitionBooking(ctx, 999, models.StatusWaiting, models.StatusApproved, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionBooking_Overlap(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	booker := createUser(t, db, "booker")
	item := createItem(t, db, owner.ID, "Drill")
	start := baseTime()

	createBooking(t, db, item.ID, booker.ID, start, start.Add(2*time.Hour), models.StatusApproved)
	overlapping := createBooking(t, db, item.ID, booker.ID, start.Add(time.Hour), start.Add(3*time.Hour), models.StatusWaiting)
	adjacent := createBooking(t, db, item.ID, booker.ID, start.Add(2*time.Hour), start.Add(4*time.Hour), models.StatusWaiting)

	_, err := db.TransitionBooking(ctx, overlapping.ID, models.StatusWaiting, models.StatusApproved, true)
	assert.ErrorIs(t, err, ErrOverlap)

	stored, err := db.GetBooking(ctx, overlapping.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, stored.Status)

	// rejecting does not care about overlaps
	_, err = db.TransitionBooking(ctx, overlapping.ID, models.StatusWaiting, models.StatusRejected, false)
	assert.NoError(t, err)

	// [start+2h, start+4h) only touches the approved [start, start+2h)
	_, err = db.TransitionBooking(ctx, adjacent.ID, models.StatusWaiting, models.StatusApproved, true)
	assert.NoError(t, err)
}

func TestQueryBookings_Ordering(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	booker := createUser(t, db, "booker")
	item := createItem(t, db, owner.ID, "Drill")
	now := baseTime()

	b1 := createBooking(t, db, item.ID, booker.ID, now.Add(24*time.Hour), now.Add(25*time.Hour), models.StatusWaiting)
	b3 := createBooking(t, db, item.ID, booker.ID, now.Add(72*time.Hour), now.Add(73*time.Hour), models.StatusWaiting)
	b2 := createBooking(t, db, item.ID, booker.ID, now.Add(48*time.Hour), now.Add(49*time.Hour), models.StatusWaiting)

	for _, role := range []models.BookingRole{models.RoleBooker, models.RoleOwner} {
		userID := booker.ID
		if role == models.RoleOwner {
			userID = owner.ID
		}
		bookings, err := db.QueryBookings(ctx, models.BookingFilter{
			UserID: userID, Role: role, State: models.StateFuture, Now: now, From: 0, Size: 10,
		})
		require.NoError(t, err)
		require.Len(t, bookings, 3, role)
		assert.Equal(t, []int64{b3.ID, b2.ID, b1.ID}, []int64{bookings[0].ID, bookings[1].ID, bookings[2].ID}, role)
	}

	page, err := db.QueryBookings(ctx, models.BookingFilter{
		UserID: booker.ID, Role: models.RoleBooker, State: models.StateAll, Now: now, From: 1, Size: 1,
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, b2.ID, page[0].ID)

	// чужие бронирования не видны
	none, err := db.QueryBookings(ctx, models.BookingFilter{
		UserID: owner.ID, Role: models.RoleBooker, State: models.StateAll, Now: now, From: 0, Size: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

// The SQL filter must select exactly the bookings the in-memory predicate accepts.
func TestQueryBookings_MatchesPredicate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	booker := createUser(t, db, "booker")
	item := createItem(t, db, owner.ID, "Drill")
	now := baseTime()

	var all []*models.Booking
	intervals := [][2]time.Duration{
		{-48 * time.Hour, -24 * time.Hour}, // past
		{-time.Hour, time.Hour},            // current
		{0, time.Hour},                     // starts exactly now
		{-time.Hour, 0},                    // ends exactly now
		{time.Second, time.Hour},           // future
		{24 * time.Hour, 48 * time.Hour},   // future
	}
	statuses := []models.BookingStatus{models.StatusWaiting, models.StatusApproved, models.StatusRejected, models.StatusCanceled}
	for i, iv := range intervals {
		for j, status := range statuses {
			if (i+j)%2 == 1 && status != models.StatusRejected {
				continue
			}
			all = append(all, createBooking(t, db, item.ID, booker.ID, now.Add(iv[0]), now.Add(iv[1]), status))
		}
	}

	states := []models.BookingState{
		models.StateAll, models.StateCurrent, models.StatePast,
		models.StateFuture, models.StateWaiting, models.StateRejected,
	}
	for _, state := range states {
		t.Run(string(state), func(t *testing.T) {
			got, err := db.QueryBookings(ctx, models.BookingFilter{
				UserID: booker.ID, Role: models.RoleBooker, State: state, Now: now, From: 0, Size: 100,
			})
			require.NoError(t, err)

			var want []int64
			for _, b := range all {
				if state.Matches(b, now) {
					want = append(want, b.ID)
				}
			}
			var gotIDs []int64
			for _, b := range got {
				gotIDs = append(gotIDs, b.ID)
			}
			assert.ElementsMatch(t, want, gotIDs)
		})
	}
}

func TestLastNextBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	booker := createUser(t, db, "booker")
	item := createItem(t, db, owner.ID, "Drill")
	now := baseTime()

	last, err := db.GetLastBooking(ctx, item.ID, now)
	require.NoError(t, err)
	assert.Nil(t, last)

	past := createBooking(t, db, item.ID, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusApproved)
	createBooking(t, db, item.ID, booker.ID, now.Add(-72*time.Hour), now.Add(-60*time.Hour), models.StatusApproved)
	createBooking(t, db, item.ID, booker.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusRejected)
	next := createBooking(t, db, item.ID, booker.ID, now.Add(24*time.Hour), now.Add(48*time.Hour), models.StatusApproved)
	createBooking(t, db, item.ID, booker.ID, now.Add(72*time.Hour), now.Add(96*time.Hour), models.StatusApproved)
	createBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusWaiting)

	last, err = db.GetLastBooking(ctx, item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, past.ID, last.ID)

	upcoming, err := db.GetNextBooking(ctx, item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, upcoming)
	assert.Equal(t, next.ID, upcoming.ID)
}

func TestHasFinishedBooking(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	owner := createUser(t, db, "owner")
	booker := createUser(t, db, "booker")
	item := createItem(t, db, owner.ID, "Drill")
	now := baseTime()

	createBooking(t, db, item.ID, booker.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour), models.StatusRejected)
	createBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)

	ok, err := db.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	createBooking(t, db, item.ID, booker.ID, now.Add(-4*time.Hour), now.Add(-2*time.Hour), models.StatusApproved)
	ok, err = db.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.HasFinishedBooking(ctx, item.ID, owner.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)
}
