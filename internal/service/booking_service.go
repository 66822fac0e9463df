package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
	"shareit/internal/repository"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	locker   domain.Locker
	eventBus domain.EventPublisher
	lockTTL  time.Duration
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewBookingService(repo domain.Repository, locker domain.Locker, eventBus domain.EventPublisher, lockTTL time.Duration, logger *zerolog.Logger) *BookingService {
	if lockTTL <= 0 {
		lockTTL = models.DefaultLockTTL * time.Second
	}
	return &BookingService{
		repo:     repo,
		locker:   locker,
		eventBus: eventBus,
		lockTTL:  lockTTL,
		clock:    time.Now,
		logger:   logger,
	}
}

// WithClock replaces the time source, mainly for tests.
func (s *BookingService) WithClock(clock domain.Clock) *BookingService {
	s.clock = clock
	return s
}

// Все сравнения ведутся с точностью до секунды, как и хранение
func (s *BookingService) now() time.Time {
	return s.clock().Truncate(time.Second)
}

// RequestBooking stores a WAITING booking after the availability checks.
// Overlaps with other bookings are not checked here; approval resolves them.
func (s *BookingService) RequestBooking(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	booker, err := s.repo.GetUser(ctx, bookerID)
	if err != nil {
		return nil, missing(err, "user", bookerID)
	}

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, missing(err, "item", itemID)
	}
	if !item.Available {
		return nil, fmt.Errorf("item %d: %w", itemID, domain.ErrUnavailable)
	}
	if item.OwnerID == bookerID {
		return nil, fmt.Errorf("item %d: %w", itemID, domain.ErrSelfBookingForbidden)
	}

	start, end = start.Truncate(time.Second), end.Truncate(time.Second)
	now := s.now()
	if !start.Before(end) {
		return nil, fmt.Errorf("start %s must be before end %s: %w",
			models.FormatDateTime(start), models.FormatDateTime(end), domain.ErrInvalidInterval)
	}
	if !start.After(now) {
		return nil, fmt.Errorf("start %s must be in the future: %w", models.FormatDateTime(start), domain.ErrInvalidInterval)
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   item.ID,
		BookerID: booker.ID,
		Status:   models.StatusWaiting,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	booking.ItemName = item.Name
	booking.OwnerID = item.OwnerID
	booking.BookerName = booker.Name

	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", itemID).Int64("booker_id", bookerID).Msg("booking requested")
	s.publishEvent(events.EventBookingCreated, booking, bookerID)
	return booking, nil
}

func (s *BookingService) Approve(ctx context.Context, bookingID, actorID int64) (*models.Booking, error) {
	return s.transition(ctx, bookingID, actorID, models.StatusApproved)
}

func (s *BookingService) Reject(ctx context.Context, bookingID, actorID int64) (*models.Booking, error) {
	return s.transition(ctx, bookingID, actorID, models.StatusRejected)
}

func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID int64) (*models.Booking, error) {
	return s.transition(ctx, bookingID, actorID, models.StatusCanceled)
}

// Decide is the owner's approve-or-reject answer.
func (s *BookingService) Decide(ctx context.Context, bookingID, actorID int64, approved bool) (*models.Booking, error) {
	if approved {
		return s.Approve(ctx, bookingID, actorID)
	}
	return s.Reject(ctx, bookingID, actorID)
}

func (s *BookingService) transition(ctx context.Context, bookingID, actorID int64, to models.BookingStatus) (*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, actorID); err != nil {
		return nil, missing(err, "user", actorID)
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, fmt.Sprintf("booking:%d", bookingID), s.lockTTL)
		if err != nil {
			if errors.Is(err, repository.ErrLockTimeout) {
				return nil, fmt.Errorf("booking %d is being modified: %w", bookingID, domain.ErrInvalidState)
			}
			return nil, fmt.Errorf("failed to lock booking %d: %w", bookingID, err)
		}
		defer unlock()
	}

	// Перечитываем под блокировкой
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, missing(err, "booking", bookingID)
	}

	if to == models.StatusCanceled {
		if booking.BookerID != actorID {
			return nil, fmt.Errorf("user %d is not the booker of booking %d: %w", actorID, bookingID, domain.ErrForbidden)
		}
	} else if booking.OwnerID != actorID {
		return nil, fmt.Errorf("user %d is not the owner of booking %d: %w", actorID, bookingID, domain.ErrForbidden)
	}

	if booking.Status != models.StatusWaiting {
		return nil, fmt.Errorf("booking %d is %s, expected %s: %w", bookingID, booking.Status, models.StatusWaiting, domain.ErrInvalidState)
	}

	updated, err := s.repo.TransitionBooking(ctx, bookingID, models.StatusWaiting, to, to == models.StatusApproved)
	switch {
	case err == nil:
	case errors.Is(err, database.ErrConcurrentModification):
		return nil, fmt.Errorf("booking %d is no longer %s: %w", bookingID, models.StatusWaiting, domain.ErrInvalidState)
	case errors.Is(err, database.ErrOverlap):
		return nil, fmt.Errorf("booking %d overlaps an approved booking of item %d: %w", bookingID, booking.ItemID, domain.ErrConflict)
	default:
		return nil, missing(err, "booking", bookingID)
	}

	s.logger.Info().
		Int64("booking_id", bookingID).
		Int64("actor_id", actorID).
		Str("status", string(updated.Status)).
		Msg("booking status changed")
	s.publishEvent(transitionEvent(to), updated, actorID)
	return updated, nil
}

func transitionEvent(to models.BookingStatus) string {
	switch to {
	case models.StatusApproved:
		return events.EventBookingApproved
	case models.StatusRejected:
		return events.EventBookingRejected
	default:
		return events.EventBookingCanceled
	}
}

// GetBooking returns the booking to its booker or the item owner.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID int64) (*models.Booking, error) {
	if _, err := s.repo.GetUser(ctx, actorID); err != nil {
		return nil, missing(err, "user", actorID)
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, missing(err, "booking", bookingID)
	}
	if booking.BookerID != actorID && booking.OwnerID != actorID {
		return nil, fmt.Errorf("user %d cannot view booking %d: %w", actorID, bookingID, domain.ErrForbidden)
	}
	return booking, nil
}

// ListBookings lists the user's bookings as booker or as owner, filtered by state.
func (s *BookingService) ListBookings(ctx context.Context, userID int64, role models.BookingRole, state string, from, size int) ([]*models.Booking, error) {
	parsed, ok := models.ParseBookingState(state)
	if !ok {
		return nil, &domain.UnsupportedStateError{State: state}
	}
	page, err := pageOf(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, missing(err, "user", userID)
	}

	return s.repo.QueryBookings(ctx, models.BookingFilter{
		UserID: userID,
		Role:   role,
		State:  parsed,
		Now:    s.now(),
		From:   page.From,
		Size:   page.Size,
	})
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		ItemName:  booking.ItemName,
		BookerID:  booking.BookerID,
		OwnerID:   booking.OwnerID,
		ActorID:   actorID,
		Status:    string(booking.Status),
		Start:     booking.Start,
		End:       booking.End,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
