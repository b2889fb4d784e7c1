package models

import "time"

// Role names carried in tokens. Administrators are users with IsStaff set.
const (
	RoleAdmin     = "admin"
	RoleVolunteer = "volunteer"
)

// User is an account, either an administrator (IsStaff) or a volunteer.
// It maps to the `users` table.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"column:username" json:"username"`
	Email        string    `gorm:"column:email" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	FirstName    string    `gorm:"column:first_name" json:"first_name"`
	LastName     string    `gorm:"column:last_name" json:"last_name"`
	IsStaff      bool      `gorm:"column:is_staff" json:"is_staff"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string { return "users" }

// Role returns the token role for the user.
func (u *User) Role() string {
	if u.IsStaff {
		return RoleAdmin
	}
	return RoleVolunteer
}

// Profile holds optional contact details, one per user.
type Profile struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	UserID      int64   `gorm:"column:user_id" json:"user_id"`
	PhoneNumber *string `gorm:"column:phone_number" json:"phone_number"`
}

func (Profile) TableName() string { return "profiles" }
