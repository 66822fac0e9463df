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

type RequestService struct {
	repo   domain.Repository
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		repo:   repo,
		clock:  time.Now,
		logger: logger,
	}
}

func (s *RequestService) WithClock(clock domain.Clock) *RequestService {
	s.clock = clock
	return s
}

func (s *RequestService) CreateRequest(ctx context.Context, requestorID int64, description string) (*models.ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("request description is empty: %w", domain.ErrInvalidArgument)
	}
	if _, err := s.repo.GetUser(ctx, requestorID); err != nil {
		return nil, missing(err, "user", requestorID)
	}

	request := &models.ItemRequest{
		Description: description,
		RequestorID: requestorID,
		Created:     s.clock().Truncate(time.Second),
		Items:       []*models.Item{},
	}
	if err := s.repo.CreateItemRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// GetOwnRequests lists the user's requests, newest first, with the items offered for them.
func (s *RequestService) GetOwnRequests(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, requestorID); err != nil {
		return nil, missing(err, "user", requestorID)
	}
	requests, err := s.repo.GetUserItemRequests(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) GetOtherRequests(ctx context.Context, userID int64, from, size int) ([]*models.ItemRequest, error) {
	page, err := pageOf(from, size)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, missing(err, "user", userID)
	}
	requests, err := s.repo.GetOtherItemRequests(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, missing(err, "user", userID)
	}
	request, err := s.repo.GetItemRequest(ctx, requestID)
	if err != nil {
		return nil, missing(err, "item request", requestID)
	}
	requests, err := s.withItems(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return requests[0], nil
}

// withItems attaches the items offered for each request with a single store query.
func (s *RequestService) withItems(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequest, error) {
	if len(requests) == 0 {
		return requests, nil
	}

	ids := make([]int64, 0, len(requests))
	byID := make(map[int64]*models.ItemRequest, len(requests))
	for _, r := range requests {
		r.Items = []*models.Item{}
		ids = append(ids, r.ID)
		byID[r.ID] = r
	}

	items, err := s.repo.GetItemsByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.RequestID == nil {
			continue
		}
		if r, ok := byID[*item.RequestID]; ok {
			r.Items = append(r.Items, item)
		}
	}
	return requests, nil
}
