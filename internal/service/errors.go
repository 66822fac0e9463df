package service

import (
	"errors"
	"fmt"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
)

// missing turns a store miss into the domain NotFound kind.
func missing(err error, entity string, id int64) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return err
}

func pageOf(from, size int) (models.Page, error) {
	page := models.Page{From: from, Size: size}
	if !page.Valid() {
		return page, fmt.Errorf("from must be >= 0 and size >= 1, got from=%d size=%d: %w", from, size, domain.ErrInvalidArgument)
	}
	return page, nil
}
