package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Repository is the entity store. Implementations never cache entities between calls.
type Repository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error

	GetItem(ctx context.Context, id int64) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, id int64, patch models.ItemPatch) (*models.Item, error)
	GetOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	GetItemsByRequests(ctx context.Context, requestIDs []int64) ([]*models.Item, error)

	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	// TransitionBooking moves a booking from one status to another atomically. When
	// rejectOverlap is set the move fails if another APPROVED booking of the same item
	// overlaps it.
	TransitionBooking(ctx context.Context, id int64, from, to models.BookingStatus, rejectOverlap bool) (*models.Booking, error)
	QueryBookings(ctx context.Context, filter models.BookingFilter) ([]*models.Booking, error)
	GetLastBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	GetNextBooking(ctx context.Context, itemID int64, now time.Time) (*models.Booking, error)
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetItemComments(ctx context.Context, itemID int64) ([]*models.Comment, error)

	CreateItemRequest(ctx context.Context, request *models.ItemRequest) error
	GetItemRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetUserItemRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	GetOtherItemRequests(ctx context.Context, requestorID int64, page models.Page) ([]*models.ItemRequest, error)
}

// Locker serializes work on a single key across goroutines and, for the Redis
// implementation, across processes.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type Clock func() time.Time

type BookingService interface {
	RequestBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error)
	Approve(ctx context.Context, bookingID, actorID int64) (*models.Booking, error)
	Reject(ctx context.Context, bookingID, actorID int64) (*models.Booking, error)
	Decide(ctx context.Context, bookingID, actorID int64, approved bool) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID, actorID int64) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID, actorID int64) (*models.Booking, error)
	ListBookings(ctx context.Context, userID int64, role models.BookingRole, state string, from, size int) ([]*models.Booking, error)
}

type CommentService interface {
	CreateComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error)
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error)
	GetItem(ctx context.Context, userID, itemID int64) (*models.ItemDetails, error)
	GetOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetails, error)
	SearchItems(ctx context.Context, userID int64, text string, from, size int) ([]*models.Item, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error)
	GetOwnRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequest, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error)
}
