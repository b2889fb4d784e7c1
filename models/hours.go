package models

import "github.com/shopspring/decimal"

// VolunteerHours is a grant of whole hours to one volunteer for one event.
// At most one exists per (VolunteerID, EventID); writers upsert by that pair.
type VolunteerHours struct {
	ID          int64 `gorm:"primaryKey" json:"id"`
	VolunteerID int64 `gorm:"column:volunteer_id" json:"volunteer_id"`
	EventID     int64 `gorm:"column:event_id" json:"event_id"`
	Hours       int64 `gorm:"column:hours" json:"hours"`

	Event *Event `gorm:"foreignKey:EventID" json:"-"`
}

func (VolunteerHours) TableName() string { return "volunteer_hours" }

// AttendanceRecord logs one meeting attended online. Records are append-only.
type AttendanceRecord struct {
	ID          int64               `gorm:"primaryKey" json:"id"`
	VolunteerID int64               `gorm:"column:volunteer_id" json:"volunteer_id"`
	Topic       *string             `gorm:"column:topic" json:"topic"`
	OnlineHours decimal.NullDecimal `gorm:"column:online_hours" json:"online_hours"`

	Volunteer *User `gorm:"foreignKey:VolunteerID" json:"-"`
}

func (AttendanceRecord) TableName() string { return "attendance_records" }
