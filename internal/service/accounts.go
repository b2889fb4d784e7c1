package service

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"volunteerManagement/internal/auth"
	"volunteerManagement/models"
	"volunteerManagement/repository"
)

// RegisterInput is the body of a self-registration.
type RegisterInput struct {
	Username    string  `json:"username" validate:"required,max=150,username"`
	Email       string  `json:"email" validate:"omitempty,max=254,email"`
	Password    string  `json:"password" validate:"required"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
	FirstName   string  `json:"first_name" validate:"max=150"`
	LastName    string  `json:"last_name" validate:"max=150"`
}

// AuthResult is a freshly issued token together with its user.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserDetail is a user with the aggregates shown on the lookup page.
type UserDetail struct {
	User           *models.User
	TotalHours     int64
	EventsAttended []repository.EventRef
	TopicsAttended []*string
}

// VolunteerSummary is one entry of the searchable volunteer roster.
type VolunteerSummary struct {
	User             models.User
	TotalHours       int64
	EventsAttended   []repository.EventRef
	MeetingsAttended []models.AttendanceRecord
}

// Profile is the caller's own dashboard.
type Profile struct {
	User           *models.User
	TotalHours     int64
	EventsAttended []repository.EventRef
	UpcomingEvents []models.Event
	Attendance     []models.AttendanceRecord
}

// Register creates a volunteer account with its profile and returns a token
// for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, internal("hash password", err)
	}
	phone := in.PhoneNumber
	if phone != nil && *phone == "" {
		phone = nil
	}
	u, err := s.store.Users.Create(ctx, &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}, phone)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, fieldError("username", "A user with that username already exists.")
		}
		return nil, internal("create user", err)
	}
	tok, err := auth.IssueToken(s.secret, u, s.ttl)
	if err != nil {
		return nil, internal("issue token", err)
	}
	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	return &AuthResult{Token: tok, User: u}, nil
}

// ObtainToken exchanges a username and password for a token.
func (s *Service) ObtainToken(ctx context.Context, username, password string) (*AuthResult, error) {
	if username == "" || password == "" {
		return nil, invalid(`Must include "username" and "password".`)
	}
	u, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, internal("get user", err)
	}
	if u == nil || !s.hasher.Compare(u.PasswordHash, password) {
		s.log.Warn("login failed", "username", username)
		return nil, status.Error(codes.Unauthenticated, "Unable to log in with provided credentials.")
	}
	tok, err := auth.IssueToken(s.secret, u, s.ttl)
	if err != nil {
		return nil, internal("issue token", err)
	}
	return &AuthResult{Token: tok, User: u}, nil
}

// ResetPassword overwrites a user's password. No old-password or strength
// check is made.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	p, err := auth.RequireAdmin(ctx, s.store.Users)
	if err != nil {
		return err
	}
	if username == "" || newPassword == "" {
		return invalid("Username and new password are required.")
	}
	u, err := s.store.Users.GetByUsername(ctx, username)
	if err != nil {
		return internal("get user", err)
	}
	if u == nil {
		return notFound("User not found.")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return internal("hash password", err)
	}
	if err := s.store.Users.SetPassword(ctx, u.ID, hash); err != nil {
		if isNotFound(err) {
			return notFound("User not found.")
		}
		return internal("set password", err)
	}
	s.log.Info("password reset", "user_id", u.ID, "by", p.Name)
	return nil
}

// LookupUser finds a user by case-insensitive username and returns it with its
// aggregates.
func (s *Service) LookupUser(ctx context.Context, name string) (*UserDetail, error) {
	if _, err := auth.RequireAdmin(ctx, s.store.Users); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, invalid("Name parameter is required")
	}
	u, err := s.store.Users.GetByUsernameFold(ctx, name)
	if err != nil {
		return nil, internal("get user", err)
	}
	if u == nil {
		return nil, notFound("Volunteer not found")
	}
	d := &UserDetail{User: u}
	if d.TotalHours, err = s.store.Summary.TotalHours(ctx, u.ID); err != nil {
		return nil, internal("total hours", err)
	}
	if d.EventsAttended, err = s.store.Summary.EventsAttended(ctx, u.ID); err != nil {
		return nil, internal("events attended", err)
	}
	if d.TopicsAttended, err = s.store.Summary.TopicsAttended(ctx, u.ID); err != nil {
		return nil, internal("topics attended", err)
	}
	return d, nil
}

// ListVolunteers returns non-staff users whose username contains every search
// term, each with its aggregates.
func (s *Service) ListVolunteers(ctx context.Context, search string) ([]VolunteerSummary, error) {
	if _, err := auth.RequireAdmin(ctx, s.store.Users); err != nil {
		return nil, err
	}
	users, err := s.store.Users.ListVolunteers(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, internal("list volunteers", err)
	}
	out := make([]VolunteerSummary, 0, len(users))
	for _, u := range users {
		v := VolunteerSummary{User: u}
		if v.TotalHours, err = s.store.Summary.TotalHours(ctx, u.ID); err != nil {
			return nil, internal("total hours", err)
		}
		if v.EventsAttended, err = s.store.Summary.EventsAttended(ctx, u.ID); err != nil {
			return nil, internal("events attended", err)
		}
		if v.MeetingsAttended, err = s.store.Summary.MeetingsAttended(ctx, u.ID); err != nil {
			return nil, internal("meetings attended", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// RosterSummary lists every volunteer with their total hours.
func (s *Service) RosterSummary(ctx context.Context) ([]repository.RosterEntry, error) {
	if _, err := auth.RequireAdmin(ctx, s.store.Users); err != nil {
		return nil, err
	}
	out, err := s.store.Summary.RosterSummary(ctx)
	if err != nil {
		return nil, internal("roster summary", err)
	}
	return out, nil
}

// MyAttendance returns the caller's attendance records, newest first.
func (s *Service) MyAttendance(ctx context.Context) ([]models.AttendanceRecord, error) {
	u, err := auth.RequireUser(ctx, s.store.Users)
	if err != nil {
		return nil, err
	}
	out, err := s.store.Attendance.ListByVolunteer(ctx, u.ID)
	if err != nil {
		return nil, internal("list attendance", err)
	}
	return out, nil
}

// MyProfile assembles the caller's dashboard. Upcoming events are those dated
// today or later in the configured time zone.
func (s *Service) MyProfile(ctx context.Context) (*Profile, error) {
	u, err := auth.RequireUser(ctx, s.store.Users)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: u}
	if p.TotalHours, err = s.store.Summary.TotalHours(ctx, u.ID); err != nil {
		return nil, internal("total hours", err)
	}
	if p.EventsAttended, err = s.store.Summary.EventsAttended(ctx, u.ID); err != nil {
		return nil, internal("events attended", err)
	}
	if p.UpcomingEvents, err = s.store.Events.ListUpcoming(ctx, s.today()); err != nil {
		return nil, internal("upcoming events", err)
	}
	if p.Attendance, err = s.store.Attendance.ListByVolunteer(ctx, u.ID); err != nil {
		return nil, internal("list attendance", err)
	}
	return p, nil
}
