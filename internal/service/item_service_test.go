package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestItemService_CreateValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerNotFound", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUser", ctx, int64(1)).Return(nil, database.ErrNotFound).Once()
		_, err := NewItemService(repo, nopLogger()).CreateItem(ctx, 1, &models.Item{Name: "A", Description: "B"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("BlankName", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1}, nil).Once()
		_, err := NewItemService(repo, nopLogger()).CreateItem(ctx, 1, &models.Item{Name: " ", Description: "B"})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})

	t.Run("UnknownRequest", func(t *testing.T) {
		repo := new(mockRepo)
		requestID := int64(77)
		repo.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1}, nil).Once()
		repo.On("GetItemRequest", ctx, requestID).Return(nil, database.ErrNotFound).Once()
		_, err := NewItemService(repo, nopLogger()).CreateItem(ctx, 1, &models.Item{Name: "A", Description: "B", RequestID: &requestID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		repo.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything)
	})
}

func TestItemService_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, db, "owner")
	other := mustUser(t, db, "other")
	s := NewItemService(db, nopLogger())

	item, err := s.CreateItem(ctx, owner.ID, &models.Item{Name: "Drill", Description: "cordless", Available: true})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, item.OwnerID)

	available := false
	_, err = s.UpdateItem(ctx, other.ID, item.ID, models.ItemPatch{Available: &available})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	blank := ""
	_, err = s.UpdateItem(ctx, owner.ID, item.ID, models.ItemPatch{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	updated, err := s.UpdateItem(ctx, owner.ID, item.ID, models.ItemPatch{Available: &available})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "cordless", updated.Description)

	_, err = s.UpdateItem(ctx, owner.ID, 999, models.ItemPatch{Available: &available})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemService_DetailsAndSearch(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, db, "owner")
	booker := mustUser(t, db, "booker")
	item := mustItem(t, db, owner.ID, "Drill")

	clock := fixedClock()
	bookings := NewBookingService(db, nil, nil, time.Second, nopLogger()).WithClock(func() time.Time { return clock })
	items := NewItemService(db, nopLogger()).WithClock(func() time.Time { return clock })
	comments := NewCommentService(db, nil, nopLogger()).WithClock(func() time.Time { return clock })

	past, err := bookings.RequestBooking(ctx, booker.ID, item.ID, clock.Add(time.Hour), clock.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = bookings.Approve(ctx, past.ID, owner.ID)
	require.NoError(t, err)
	next, err := bookings.RequestBooking(ctx, booker.ID, item.ID, clock.Add(48*time.Hour), clock.Add(49*time.Hour))
	require.NoError(t, err)
	_, err = bookings.Approve(ctx, next.ID, owner.ID)
	require.NoError(t, err)

	clock = clock.Add(3 * time.Hour)
	_, err = comments.CreateComment(ctx, item.ID, booker.ID, "works fine")
	require.NoError(t, err)

	ownerView, err := items.GetItem(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, ownerView.LastBooking)
	require.NotNil(t, ownerView.NextBooking)
	assert.Equal(t, past.ID, ownerView.LastBooking.ID)
	assert.Equal(t, next.ID, ownerView.NextBooking.ID)
	require.Len(t, ownerView.Comments, 1)

	bookerView, err := items.GetItem(ctx, booker.ID, item.ID)
	require.NoError(t, err)
	assert.Nil(t, bookerView.LastBooking)
	assert.Nil(t, bookerView.NextBooking)
	assert.Len(t, bookerView.Comments, 1)

	list, err := items.GetOwnerItems(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotNil(t, list[0].LastBooking)

	found, err := items.SearchItems(ctx, booker.ID, "dRI", 0, 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	empty, err := items.SearchItems(ctx, booker.ID, "   ", 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = items.SearchItems(ctx, booker.ID, "drill", 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
