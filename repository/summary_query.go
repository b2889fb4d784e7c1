package repository

import (
	"context"

	"gorm.io/gorm"

	"volunteerManagement/models"
)

// SummaryQuery derives the per-user aggregates that are never stored: total
// hours, events attended, topics attended and the roster summary. Every call
// reads the current rows; nothing is cached.
type SummaryQuery struct {
	db *gorm.DB
}

func NewSummaryQuery(db *gorm.DB) *SummaryQuery {
	return &SummaryQuery{db: db}
}

// EventRef names an event the way the front end shows it.
type EventRef struct {
	ID    int64  `gorm:"column:id"`
	Title string `gorm:"column:title"`
	Date  string `gorm:"column:date"`
}

// RosterEntry is one line of the roster summary.
type RosterEntry struct {
	ID         int64  `gorm:"column:id"`
	Username   string `gorm:"column:username"`
	Email      string `gorm:"column:email"`
	TotalHours int64  `gorm:"column:total_hours"`
}

// TotalHours sums the user's grants; 0 when there are none.
func (q *SummaryQuery) TotalHours(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var total int64
	err := q.db.WithContext(ctx).Model(&models.VolunteerHours{}).
		Select("COALESCE(SUM(hours), 0)").
		Where("volunteer_id = ?", userID).
		Scan(&total).Error
	return total, err
}

// EventsAttended lists the events whose volunteer set contains the user,
// ordered by date. Participation is the single source for this list: hour
// grants always link their volunteer, so every graded event appears here too.
func (q *SummaryQuery) EventsAttended(ctx context.Context, userID int64) ([]EventRef, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var out []EventRef
	err := q.db.WithContext(ctx).Table("events AS e").
		Select("e.id, e.title, e.date").
		Joins("JOIN event_volunteers AS ev ON ev.event_id = e.id").
		Where("ev.user_id = ?", userID).
		Order("e.date").Order("e.id").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MeetingsAttended returns the user's attendance records with positive online
// hours, newest first. Duplicate topics are kept.
func (q *SummaryQuery) MeetingsAttended(ctx context.Context, userID int64) ([]models.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var out []models.AttendanceRecord
	err := q.db.WithContext(ctx).
		Where("volunteer_id = ? AND online_hours > 0", userID).
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TopicsAttended is MeetingsAttended reduced to topics. A record without a
// topic contributes a nil entry.
func (q *SummaryQuery) TopicsAttended(ctx context.Context, userID int64) ([]*string, error) {
	recs, err := q.MeetingsAttended(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*string, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].Topic)
	}
	return out, nil
}

// RosterSummary lists every non-staff user with their total hours, including
// users who have no grants at all.
func (q *SummaryQuery) RosterSummary(ctx context.Context) ([]RosterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var out []RosterEntry
	err := q.db.WithContext(ctx).Table("users AS u").
		Select("u.id, u.username, u.email, COALESCE(SUM(vh.hours), 0) AS total_hours").
		Joins("LEFT JOIN volunteer_hours AS vh ON vh.volunteer_id = u.id").
		Where("u.is_staff = ?", false).
		Group("u.id, u.username, u.email").
		Order("u.id").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
