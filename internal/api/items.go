package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) createItem(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in itemInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.Name == nil || in.Description == nil || in.Available == nil {
		s.fail(w, r, badRequest("name, description and available are required"))
		return
	}

	item, err := s.services.Items.CreateItem(r.Context(), actor, &models.Item{
		Name:        *in.Name,
		Description: *in.Description,
		Available:   *in.Available,
		RequestID:   in.RequestID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(item))
}

func (s *HTTPServer) updateItem(w http.ResponseWriter, r *http.Request) {
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
	var in itemInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	patch := models.ItemPatch{Name: in.Name, Description: in.Description, Available: in.Available}
	item, err := s.services.Items.UpdateItem(r.Context(), actor, itemID, patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

func (s *HTTPServer) getItem(w http.ResponseWriter, r *http.Request) {
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

	details, err := s.services.Items.GetItem(r.Context(), actor, itemID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDetailsDTO(details))
}

func (s *HTTPServer) listOwnerItems(w http.ResponseWriter, r *http.Request) {
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

	items, err := s.services.Items.GetOwnerItems(r.Context(), actor, from, size)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]itemDetailsDTO, 0, len(items))
	for _, d := range items {
		out = append(out, toItemDetailsDTO(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *HTTPServer) searchItems(w http.ResponseWriter, r *http.Request) {
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

	items, err := s.services.Items.SearchItems(r.Context(), actor, r.URL.Query().Get("text"), from, size)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTOs(items))
}
