package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// Booking is a request to borrow an item for [Start, End).
// ItemName, OwnerID and BookerName are resolved by query when the booking is read and are
// never written back.
type Booking struct {
	ID         int64         `json:"id"`
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	ItemID     int64         `json:"item_id"`
	BookerID   int64         `json:"booker_id"`
	Status     BookingStatus `json:"status"`
	Version    int64         `json:"version"`
	ItemName   string        `json:"item_name,omitempty"`
	OwnerID    int64         `json:"owner_id,omitempty"`
	BookerName string        `json:"booker_name,omitempty"`
}

// Overlaps reports whether the half-open intervals [Start, End) intersect.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// BookingRole selects whose bookings a listing is scoped to.
type BookingRole string

const (
	RoleBooker BookingRole = "BOOKER"
	RoleOwner  BookingRole = "OWNER"
)

// BookingState is the listing filter token. It mixes temporal buckets (CURRENT, PAST,
// FUTURE) with lifecycle statuses (WAITING, REJECTED); each value has exactly one meaning.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState accepts the tokens case-insensitively; ok is false for anything else.
func ParseBookingState(token string) (BookingState, bool) {
	switch s := BookingState(strings.ToUpper(strings.TrimSpace(token))); s {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return s, true
	default:
		return "", false
	}
}

// Matches is the in-memory form of the listing filter. CURRENT, PAST and FUTURE ignore
// status; WAITING and REJECTED ignore dates.
func (s BookingState) Matches(b *Booking, now time.Time) bool {
	switch s {
	case StateAll:
		return true
	case StateCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}

// BookingFilter is a role-scoped, paginated listing request.
type BookingFilter struct {
	UserID int64
	Role   BookingRole
	State  BookingState
	Now    time.Time
	From   int
	Size   int
}
