package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) createRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in requestInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	request, err := s.services.Requests.CreateRequest(r.Context(), actor, in.Description)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRequestDTO(request))
}

func (s *HTTPServer) listOwnRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	requests, err := s.services.Requests.GetOwnRequests(r.Context(), actor)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(requests))
}

func (s *HTTPServer) listOtherRequests(w http.ResponseWriter, r *http.Request) {
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
	requests, err := s.services.Requests.GetOtherRequests(r.Context(), actor, from, size)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTOs(requests))
}

func (s *HTTPServer) getRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	request, err := s.services.Requests.GetRequest(r.Context(), actor, requestID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(request))
}

func toRequestDTOs(requests []*models.ItemRequest) []requestDTO {
	out := make([]requestDTO, 0, len(requests))
	for _, r := range requests {
		out = append(out, toRequestDTO(r))
	}
	return out
}
