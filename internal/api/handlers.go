package api

import (
	"net/http"
	"strconv"
	"time"

	"shareit/internal/models"
)

// POST /bookings
func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in bookingInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.ItemID == nil || in.Start == nil || in.End == nil {
		s.fail(w, r, badRequest("itemId, start and end are required"))
		return
	}

	booking, err := s.services.Bookings.RequestBooking(r.Context(), actor, *in.ItemID, time.Time(*in.Start), time.Time(*in.End))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingDTO(booking))
}

// PATCH /bookings/{bookingId}?approved=true|false
func (s *HTTPServer) decideBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		s.fail(w, r, badRequest("approved must be true or false"))
		return
	}

	booking, err := s.services.Bookings.Decide(r.Context(), bookingID, actor, approved)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(booking))
}

// PATCH /bookings/{bookingId}/cancel
func (s *HTTPServer) cancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	booking, err := s.services.Bookings.Cancel(r.Context(), bookingID, actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(booking))
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	booking, err := s.services.Bookings.GetBooking(r.Context(), bookingID, actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(booking))
}

func (s *HTTPServer) listBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, models.RoleBooker)
}

func (s *HTTPServer) listOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, models.RoleOwner)
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, role models.BookingRole) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	from, size, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		state = string(models.StateAll)
	}

	bookings, err := s.services.Bookings.ListBookings(r.Context(), actor, role, state, from, size)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]bookingDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingDTO(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /items/{itemId}/comment
func (s *HTTPServer) createComment(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in commentInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	comment, err := s.services.Comments.CreateComment(r.Context(), itemID, actor, in.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentDTO(comment))
}
