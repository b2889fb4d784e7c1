package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"volunteerManagement/models"
)

// EventRepository handles events and their volunteer participation links.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func preloadVolunteers(q *gorm.DB) *gorm.DB {
	return q.Preload("Volunteers", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") })
}

// Create inserts the event and links the given volunteers to it.
func (r *EventRepository) Create(ctx context.Context, e *models.Event, volunteerIDs []int64) (*models.Event, error) {
	if e == nil {
		return nil, errors.New("event is nil")
	}
	if e.Time == "" {
		e.Time = models.DefaultEventTime
	}
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e.Volunteers = nil
		if err := tx.Omit(clause.Associations).Create(e).Error; err != nil {
			return err
		}
		return linkAll(tx, e.ID, volunteerIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, e.ID)
}

// GetByID fetches an event with its volunteers.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var e models.Event
	if err := preloadVolunteers(r.db.WithContext(ctx)).Take(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// Update writes title, description, date and time. When volunteerIDs is non-nil
// the participation set is replaced by it.
func (r *EventRepository) Update(ctx context.Context, e *models.Event, volunteerIDs *[]int64) error {
	if e == nil {
		return errors.New("event is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Event{}).Where("id = ?", e.ID).Updates(map[string]any{
			"title":       e.Title,
			"description": e.Description,
			"date":        e.Date,
			"time":        e.Time,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if volunteerIDs == nil {
			return nil
		}
		if err := tx.Where("event_id = ?", e.ID).Delete(&models.EventVolunteer{}).Error; err != nil {
			return err
		}
		return linkAll(tx, e.ID, *volunteerIDs)
	})
}

// Delete removes an event by id; its hours and links cascade.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns events whose title contains every search term, ordered by id.
func (r *EventRepository) List(ctx context.Context, search string) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	q := containsAll(preloadVolunteers(r.db.WithContext(ctx)), "title", search)
	var out []models.Event
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByTitleAndDate returns every event sharing the title and date, lowest id first.
func (r *EventRepository) FindByTitleAndDate(ctx context.Context, title, date string) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var out []models.Event
	if err := r.db.WithContext(ctx).Where("title = ? AND date = ?", title, date).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByTitleAndDate removes every event sharing the title and date and
// reports how many were deleted.
func (r *EventRepository) DeleteByTitleAndDate(ctx context.Context, title, date string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Where("title = ? AND date = ?", title, date).Delete(&models.Event{})
	return res.RowsAffected, res.Error
}

// LinkVolunteer adds the user to the event's volunteers. It reports whether a
// new link was created; an existing link is left untouched.
func (r *EventRepository) LinkVolunteer(ctx context.Context, eventID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.EventVolunteer{EventID: eventID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IsLinked reports whether the user is among the event's volunteers.
func (r *EventRepository) IsLinked(ctx context.Context, eventID, userID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).Model(&models.EventVolunteer{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&n).Error
	return n > 0, err
}

// ListUpcoming returns events dated on or after today (YYYY-MM-DD), soonest first.
func (r *EventRepository) ListUpcoming(ctx context.Context, today string) ([]models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var out []models.Event
	err := r.db.WithContext(ctx).
		Where("date >= ?", today).
		Order("date").Order("time").Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func linkAll(tx *gorm.DB, eventID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]models.EventVolunteer, 0, len(userIDs))
	seen := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.EventVolunteer{EventID: eventID, UserID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
