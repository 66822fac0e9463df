package models

import (
	"fmt"
	"strings"
	"time"
)

// ParseDateTime parses a wire timestamp in the server's local zone.
func ParseDateTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q, expected %s", value, DateTimeLayout)
	}
	return t, nil
}

// FormatDateTime renders t in the wire format, truncated to seconds.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(DateTimeLayout)
}

// Page validates offset pagination.
type Page struct {
	From int
	Size int
}

func (p Page) Valid() bool {
	return p.From >= 0 && p.Size >= 1
}
