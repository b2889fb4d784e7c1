package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"volunteerManagement/models"
)

type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create appends an attendance record. Records are never updated in place.
func (r *AttendanceRepository) Create(ctx context.Context, rec *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if rec == nil {
		return nil, errors.New("attendance record is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if err := r.db.WithContext(ctx).Omit("Volunteer").Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ListByVolunteer returns the volunteer's records, newest first.
func (r *AttendanceRepository) ListByVolunteer(ctx context.Context, volunteerID int64) ([]models.AttendanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	var out []models.AttendanceRecord
	err := r.db.WithContext(ctx).Preload("Volunteer").
		Where("volunteer_id = ?", volunteerID).
		Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
