package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type CommentService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	clock    domain.Clock
	logger   *zerolog.Logger
}

func NewCommentService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *CommentService {
	return &CommentService{
		repo:     repo,
		eventBus: eventBus,
		clock:    time.Now,
		logger:   logger,
	}
}

func (s *CommentService) WithClock(clock domain.Clock) *CommentService {
	s.clock = clock
	return s
}

// CreateComment lets a user comment an item only after one of their approved bookings of
// it has ended.
func (s *CommentService) CreateComment(ctx context.Context, itemID, authorID int64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("comment text is empty: %w", domain.ErrInvalidArgument)
	}

	author, err := s.repo.GetUser(ctx, authorID)
	if err != nil {
		return nil, missing(err, "user", authorID)
	}
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, missing(err, "item", itemID)
	}

	now := s.clock().Truncate(time.Second)
	finished, err := s.repo.HasFinishedBooking(ctx, itemID, authorID, now)
	if err != nil {
		return nil, err
	}
	if !finished {
		return nil, fmt.Errorf("user %d has no finished booking of item %d: %w", authorID, itemID, domain.ErrCommentNotAllowed)
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.CommentEventPayload{CommentID: comment.ID, ItemID: itemID, AuthorID: authorID, Text: text}
		if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}
	return comment, nil
}
