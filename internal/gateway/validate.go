package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/models"

	"github.com/go-chi/chi/v5"
)

type incoming struct {
	r    *http.Request
	body []byte
}

// decode unmarshals the buffered body; an empty body is an error.
func (in *incoming) decode(dst any) error {
	if len(in.body) == 0 {
		return errors.New("request body is required")
	}
	if err := json.Unmarshal(in.body, dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// check rejects a request before it reaches the server; the error text goes to the client.
type check func(in *incoming) error

func requireActor(in *incoming) error {
	raw := in.r.Header.Get(models.UserIDHeader)
	if raw == "" {
		return fmt.Errorf("header %s is required", models.UserIDHeader)
	}
	if id, err := strconv.ParseInt(raw, 10, 64); err != nil || id <= 0 {
		return fmt.Errorf("header %s must be a positive integer", models.UserIDHeader)
	}
	return nil
}

func requirePathID(name string) check {
	return func(in *incoming) error {
		if _, err := strconv.ParseInt(chi.URLParam(in.r, name), 10, 64); err != nil {
			return fmt.Errorf("path parameter %s must be an integer", name)
		}
		return nil
	}
}

func validatePage(in *incoming) error {
	q := in.r.URL.Query()
	if raw := q.Get("from"); raw != "" {
		if from, err := strconv.Atoi(raw); err != nil || from < 0 {
			return errors.New("from must be a non-negative integer")
		}
	}
	if raw := q.Get("size"); raw != "" {
		if size, err := strconv.Atoi(raw); err != nil || size < 1 {
			return errors.New("size must be a positive integer")
		}
	}
	return nil
}

func validateState(in *incoming) error {
	state := in.r.URL.Query().Get("state")
	if state == "" {
		return nil
	}
	if _, ok := models.ParseBookingState(state); !ok {
		return fmt.Errorf("Unknown state: %s", state)
	}
	return nil
}

func validateApproved(in *incoming) error {
	if _, err := strconv.ParseBool(in.r.URL.Query().Get("approved")); err != nil {
		return errors.New("approved must be true or false")
	}
	return nil
}

func validateUser(create bool) check {
	return func(in *incoming) error {
		var body struct {
			Name  *string `json:"name"`
			Email *string `json:"email"`
		}
		if err := in.decode(&body); err != nil {
			return err
		}
		if create && (body.Name == nil || body.Email == nil) {
			return errors.New("name and email are required")
		}
		if body.Name != nil && strings.TrimSpace(*body.Name) == "" {
			return errors.New("name must not be blank")
		}
		if body.Email != nil && !validEmail(strings.TrimSpace(*body.Email)) {
			return fmt.Errorf("email %q is invalid", *body.Email)
		}
		return nil
	}
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func validateItem(in *incoming) error {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Available   *bool  `json:"available"`
	}
	if err := in.decode(&body); err != nil {
		return err
	}
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.Description) == "" {
		return errors.New("name and description must not be blank")
	}
	if body.Available == nil {
		return errors.New("available is required")
	}
	return nil
}

func validateComment(in *incoming) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := in.decode(&body); err != nil {
		return err
	}
	if strings.TrimSpace(body.Text) == "" {
		return errors.New("text must not be blank")
	}
	return nil
}

func validateRequest(in *incoming) error {
	var body struct {
		Description string `json:"description"`
	}
	if err := in.decode(&body); err != nil {
		return err
	}
	if strings.TrimSpace(body.Description) == "" {
		return errors.New("description must not be blank")
	}
	return nil
}

// validateBooking checks the interval shape; availability and ownership stay with the server.
func (g *Gateway) validateBooking(in *incoming) error {
	var body struct {
		ItemID *int64  `json:"itemId"`
		Start  *string `json:"start"`
		End    *string `json:"end"`
	}
	if err := in.decode(&body); err != nil {
		return err
	}
	if body.ItemID == nil || body.Start == nil || body.End == nil {
		return errors.New("itemId, start and end are required")
	}

	start, err := models.ParseDateTime(*body.Start)
	if err != nil {
		return err
	}
	end, err := models.ParseDateTime(*body.End)
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return errors.New("start must be before end")
	}
	if !start.After(g.clock().Truncate(time.Second)) {
		return errors.New("start must be in the future")
	}
	return nil
}
