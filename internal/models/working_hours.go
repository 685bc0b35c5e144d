package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for dates in request bodies.
const DateLayout = "2006-01-02"

// displayLayout is the wire format for dates in responses.
const displayLayout = "02.01.2006"

// Date is a calendar date without a time component. It serializes as
// DD.MM.YYYY in JSON responses.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to midnight UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", d.Format(displayLayout))), nil
}

// Key returns the YYYY-MM-DD form used for storage and range queries.
func (d Date) Key() string {
	return d.Format(DateLayout)
}

// WorkingHours is one user's reported hours for a single calendar date.
// Date and UserID are immutable after creation.
type WorkingHours struct {
	ID      string  `json:"id"`
	Date    Date    `json:"date"`
	Hours   float64 `json:"working_hours"`
	Comment string  `json:"comment"`
	UserID  string  `json:"user_id"`
}
