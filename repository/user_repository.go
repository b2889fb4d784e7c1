package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"volunteerManagement/models"
)

// ErrDuplicateUsername is returned when a username is already taken.
var ErrDuplicateUsername = errors.New("username already exists")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user together with its profile. Both rows are written in
// one transaction so a user never exists without a profile.
func (r *UserRepository) Create(ctx context.Context, u *models.User, phone *string) (*models.User, error) {
	if u == nil {
		return nil, errors.New("user is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u.Profile = nil
		if err := tx.Create(u).Error; err != nil {
			return translate(err)
		}
		p := &models.Profile{UserID: u.ID, PhoneNumber: phone}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		u.Profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.first(ctx, r.db.Where("id = ?", id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, r.db.Where("username = ?", username))
}

// GetByUsernameFold matches the username case-insensitively. The lowest id wins
// when several accounts differ only in case.
func (r *UserRepository) GetByUsernameFold(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, r.db.Where("LOWER(username) = LOWER(?)", username))
}

func (r *UserRepository) first(ctx context.Context, q *gorm.DB) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var u models.User
	err := q.WithContext(ctx).Preload("Profile").Order("id").Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ListVolunteers returns non-staff users whose username contains every search
// term, ordered by id. An empty search returns all volunteers.
func (r *UserRepository) ListVolunteers(ctx context.Context, search string) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	q := r.db.WithContext(ctx).Preload("Profile").Where("is_staff = ?", false)
	q = containsAll(q, "username", search)
	var out []models.User
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	return r.update(ctx, r.db.Model(&models.User{}).Where("id = ?", id), "password_hash", hash)
}

// SetStaffByUsername grants or revokes the administrator role.
func (r *UserRepository) SetStaffByUsername(ctx context.Context, username string, staff bool) error {
	return r.update(ctx, r.db.Model(&models.User{}).Where("username = ?", username), "is_staff", staff)
}

// UpdatePhone overwrites the phone number on the user's profile.
func (r *UserRepository) UpdatePhone(ctx context.Context, userID int64, phone *string) error {
	return r.update(ctx, r.db.Model(&models.Profile{}).Where("user_id = ?", userID), "phone_number", phone)
}

func (r *UserRepository) update(ctx context.Context, q *gorm.DB, column string, value any) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res := q.WithContext(ctx).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user; profile, hours, attendance and participation rows
// cascade in the database.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %v", ErrDuplicateUsername, err)
	}
	return err
}
