package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"volunteerManagement/models"
)

type HoursRepository struct {
	db *gorm.DB
}

func NewHoursRepository(db *gorm.DB) *HoursRepository {
	return &HoursRepository{db: db}
}

// Upsert sets the hours for the (volunteer, event) pair, creating the grant when
// none exists. There is no unique constraint behind the pair, so callers that
// need it race-free run Upsert inside Store.Transaction.
func (r *HoursRepository) Upsert(ctx context.Context, volunteerID, eventID, hours int64) (*models.VolunteerHours, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	existing, err := r.GetByPair(ctx, volunteerID, eventID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		if err := r.db.WithContext(ctx).Model(existing).Update("hours", hours).Error; err != nil {
			return nil, false, err
		}
		existing.Hours = hours
		return existing, false, nil
	}
	vh := &models.VolunteerHours{VolunteerID: volunteerID, EventID: eventID, Hours: hours}
	if err := r.db.WithContext(ctx).Omit("Event").Create(vh).Error; err != nil {
		return nil, false, err
	}
	return vh, true, nil
}

// GetByPair returns the oldest grant for the pair, or nil.
func (r *HoursRepository) GetByPair(ctx context.Context, volunteerID, eventID int64) (*models.VolunteerHours, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var vh models.VolunteerHours
	err := r.db.WithContext(ctx).
		Where("volunteer_id = ? AND event_id = ?", volunteerID, eventID).
		Order("id").
		Take(&vh).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vh, nil
}

// ListByVolunteer returns the volunteer's grants with their events.
func (r *HoursRepository) ListByVolunteer(ctx context.Context, volunteerID int64) ([]models.VolunteerHours, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var out []models.VolunteerHours
	err := r.db.WithContext(ctx).Preload("Event").
		Where("volunteer_id = ?", volunteerID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
