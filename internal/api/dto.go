package api

import (
	"strings"
	"time"

	"shareit/internal/models"
)

// dateTime is a local second-precision timestamp on the wire.
type dateTime time.Time

func (d dateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + models.FormatDateTime(time.Time(d)) + `"`), nil
}

func (d *dateTime) UnmarshalJSON(data []byte) error {
	t, err := models.ParseDateTime(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = dateTime(t)
	return nil
}

type userDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

type userInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type itemInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

type itemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

func toItemDTO(i *models.Item) itemDTO {
	return itemDTO{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		OwnerID:     i.OwnerID,
		RequestID:   i.RequestID,
	}
}

func toItemDTOs(items []*models.Item) []itemDTO {
	out := make([]itemDTO, 0, len(items))
	for _, i := range items {
		out = append(out, toItemDTO(i))
	}
	return out
}

// shortBookingDTO is the last/next booking shown to the item owner.
type shortBookingDTO struct {
	ID       int64    `json:"id"`
	BookerID int64    `json:"bookerId"`
	Start    dateTime `json:"start"`
	End      dateTime `json:"end"`
}

func toShortBooking(b *models.Booking) *shortBookingDTO {
	if b == nil {
		return nil
	}
	return &shortBookingDTO{ID: b.ID, BookerID: b.BookerID, Start: dateTime(b.Start), End: dateTime(b.End)}
}

type commentDTO struct {
	ID         int64    `json:"id"`
	Text       string   `json:"text"`
	AuthorName string   `json:"authorName"`
	Created    dateTime `json:"created"`
}

func toCommentDTO(c *models.Comment) commentDTO {
	return commentDTO{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: dateTime(c.Created)}
}

type itemDetailsDTO struct {
	itemDTO
	LastBooking *shortBookingDTO `json:"lastBooking"`
	NextBooking *shortBookingDTO `json:"nextBooking"`
	Comments    []commentDTO     `json:"comments"`
}

func toItemDetailsDTO(d *models.ItemDetails) itemDetailsDTO {
	comments := make([]commentDTO, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, toCommentDTO(c))
	}
	return itemDetailsDTO{
		itemDTO:     toItemDTO(&d.Item),
		LastBooking: toShortBooking(d.LastBooking),
		NextBooking: toShortBooking(d.NextBooking),
		Comments:    comments,
	}
}

type bookingInput struct {
	ItemID *int64    `json:"itemId"`
	Start  *dateTime `json:"start"`
	End    *dateTime `json:"end"`
}

type refDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingDTO struct {
	ID     int64                `json:"id"`
	Start  dateTime             `json:"start"`
	End    dateTime             `json:"end"`
	Status models.BookingStatus `json:"status"`
	Booker refDTO               `json:"booker"`
	Item   refDTO               `json:"item"`
}

func toBookingDTO(b *models.Booking) bookingDTO {
	return bookingDTO{
		ID:     b.ID,
		Start:  dateTime(b.Start),
		End:    dateTime(b.End),
		Status: b.Status,
		Booker: refDTO{ID: b.BookerID, Name: b.BookerName},
		Item:   refDTO{ID: b.ItemID, Name: b.ItemName},
	}
}

type commentInput struct {
	Text string `json:"text"`
}

type requestInput struct {
	Description string `json:"description"`
}

type requestDTO struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Created     dateTime  `json:"created"`
	Items       []itemDTO `json:"items"`
}

func toRequestDTO(r *models.ItemRequest) requestDTO {
	return requestDTO{
		ID:          r.ID,
		Description: r.Description,
		Created:     dateTime(r.Created),
		Items:       toItemDTOs(r.Items),
	}
}
