package models

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	// DefaultEventTime is used when an event is created without a time.
	DefaultEventTime = "00:00:00"
)

// Event is a volunteering occasion. (Title, Date) is how the front end names an
// event but it is not unique.
type Event struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"column:title" json:"title"`
	Description string `gorm:"column:description" json:"description"`
	Date        string `gorm:"column:date" json:"date"`
	Time        string `gorm:"column:time" json:"time"`

	Volunteers []User `gorm:"many2many:event_volunteers;joinForeignKey:EventID;joinReferences:UserID" json:"-"`
}

func (Event) TableName() string { return "events" }

// EventVolunteer is a row of the participation join table.
type EventVolunteer struct {
	EventID int64 `gorm:"column:event_id;primaryKey"`
	UserID  int64 `gorm:"column:user_id;primaryKey"`
}

func (EventVolunteer) TableName() string { return "event_volunteers" }

// ParseDate validates a YYYY-MM-DD date and returns it in canonical form.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("date has wrong format, use YYYY-MM-DD")
	}
	return t.Format(DateLayout), nil
}

// ParseTime accepts HH:MM or HH:MM:SS and returns HH:MM:SS. Empty input yields
// DefaultEventTime.
func ParseTime(s string) (string, error) {
	if s == "" {
		return DefaultEventTime, nil
	}
	for _, layout := range []string{TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("time has wrong format, use HH:MM[:SS]")
}
