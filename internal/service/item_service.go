package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo   domain.Repository
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewItemService(repo domain.Repository, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		clock:  time.Now,
		logger: logger,
	}
}

func (s *ItemService) WithClock(clock domain.Clock) *ItemService {
	s.clock = clock
	return s
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, missing(err, "user", ownerID)
	}

	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	if item.Name == "" || item.Description == "" {
		return nil, fmt.Errorf("item name and description are required: %w", domain.ErrInvalidArgument)
	}
	if item.RequestID != nil {
		if _, err := s.repo.GetItemRequest(ctx, *item.RequestID); err != nil {
			return nil, missing(err, "item request", *item.RequestID)
		}
	}

	item.OwnerID = ownerID
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// UpdateItem applies a partial update; only the owner may change an item.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, missing(err, "user", ownerID)
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, missing(err, "item", itemID)
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("user %d is not the owner of item %d: %w", ownerID, itemID, domain.ErrForbidden)
	}

	for _, field := range []*string{patch.Name, patch.Description} {
		if field == nil {
			continue
		}
		*field = strings.TrimSpace(*field)
		if *field == "" {
			return nil, fmt.Errorf("item name and description must not be blank: %w", domain.ErrInvalidArgument)
		}
	}

	updated, err := s.repo.UpdateItem(ctx, itemID, patch)
	if err != nil {
		return nil, missing(err, "item", itemID)
	}
	return updated, nil
}

// GetItem returns the item with comments; the owner also sees the last and next bookings.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*models.ItemDetails, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, missing(err, "user", userID)
	}
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, missing(err, "item", itemID)
	}
	return s.details(ctx, item, item.OwnerID == userID)
}

func (s *ItemService) GetOwnerItems(ctx context.Context, ownerID int64, from, size int) ([]*models.ItemDetails, error) {
	page, err := pageOf(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, missing(err, "user", ownerID)
	}

	items, err := s.repo.GetOwnerItems(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	result := make([]*models.ItemDetails, 0, len(items))
	for _, item := range items {
		details, err := s.details(ctx, item, true)
		if err != nil {
			return nil, err
		}
		result = append(result, details)
	}
	return result, nil
}

// SearchItems matches available items by name or description; blank text finds nothing.
func (s *ItemService) SearchItems(ctx context.Context, userID int64, text string, from, size int) ([]*models.Item, error) {
	page, err := pageOf(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, missing(err, "user", userID)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.Item{}, nil
	}
	return s.repo.SearchItems(ctx, text, page)
}

func (s *ItemService) details(ctx context.Context, item *models.Item, withBookings bool) (*models.ItemDetails, error) {
	details := &models.ItemDetails{Item: *item}

	comments, err := s.repo.GetItemComments(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	details.Comments = comments

	if withBookings {
		now := s.clock().Truncate(time.Second)
		if details.LastBooking, err = s.repo.GetLastBooking(ctx, item.ID, now); err != nil {
			return nil, err
		}
		if details.NextBooking, err = s.repo.GetNextBooking(ctx, item.ID, now); err != nil {
			return nil, err
		}
	}
	return details, nil
}
