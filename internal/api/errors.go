package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-chi/chi/v5"
)

// statusFor maps a domain error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSelfBookingForbidden):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrCommentNotAllowed),
		errors.Is(err, domain.ErrUnsupportedState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("request_id", requestID(r.Context())).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, status, "internal error")
		return
	}

	// клиенту нужен именно токен состояния
	var unsupported *domain.UnsupportedStateError
	if errors.As(err, &unsupported) {
		writeError(w, status, unsupported.Error())
		return
	}
	writeError(w, status, err.Error())
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrInvalidArgument)
}

// actorID reads the calling user from the X-Sharer-User-Id header.
func actorID(r *http.Request) (int64, error) {
	raw := r.Header.Get(models.UserIDHeader)
	if raw == "" {
		return 0, badRequest("header %s is required", models.UserIDHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("header %s must be a positive integer", models.UserIDHeader)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, badRequest("path parameter %s must be an integer", name)
	}
	return id, nil
}

// pageParams reads from/size with the listing defaults; range checks belong to the services.
func pageParams(r *http.Request) (from, size int, err error) {
	from, size = models.DefaultPageFrom, models.DefaultPageSize
	q := r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil {
			return 0, 0, badRequest("from must be an integer")
		}
	}
	if raw := q.Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return 0, 0, badRequest("size must be an integer")
		}
	}
	return from, size, nil
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("invalid JSON body")
	}
	return nil
}
