package testutil

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/metadata"

	"volunteerManagement/internal/db"
	"volunteerManagement/models"
	"volunteerManagement/repository"
)

// OpenInMemoryDB opens a private in-memory SQLite database and applies migrations.
// The name is prefixed to a random id so parallel tests never share a cache.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	d, err := db.Open("file:" + name + "-" + uuid.NewString() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// OpenStore returns a repository.Store over a fresh in-memory database.
func OpenStore(t *testing.T) *repository.Store {
	t.Helper()
	g, err := db.NewGorm(OpenInMemoryDB(t, t.Name()))
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return repository.NewStore(g)
}

// Ctx returns a context bounded to a few seconds for a single test step.
func Ctx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CreateUser inserts a user (with profile) and fails the test on error.
func CreateUser(t *testing.T, s *repository.Store, username string, staff bool) *models.User {
	t.Helper()
	u, err := s.Users.Create(Ctx(t), &models.User{
		Username:     username,
		Email:        username + "@example.org",
		PasswordHash: "x",
		IsStaff:      staff,
	}, nil)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateEvent inserts an event and fails the test on error.
func CreateEvent(t *testing.T, s *repository.Store, title, date string) *models.Event {
	t.Helper()
	e, err := s.Events.Create(Ctx(t), &models.Event{Title: title, Description: title, Date: date}, nil)
	if err != nil {
		t.Fatalf("create event %s: %v", title, err)
	}
	return e
}

// Attend appends an attendance record with the given hours ("" for NULL).
func Attend(t *testing.T, s *repository.Store, userID int64, topic, hours string) {
	t.Helper()
	rec := &models.AttendanceRecord{VolunteerID: userID, Topic: &topic}
	if hours != "" {
		rec.OnlineHours = decimal.NewNullDecimal(decimal.RequireFromString(hours))
	}
	if _, err := s.Attendance.Create(Ctx(t), rec); err != nil {
		t.Fatalf("attend: %v", err)
	}
}

// Count returns the number of rows in model's table matching the optional condition.
func Count(t *testing.T, s *repository.Store, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := s.DB().Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

// GenerateJWTHS256 returns a signed token with the claims the API issues.
func GenerateJWTHS256(t *testing.T, secret string, userID int64, name, kind string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid":  userID,
		"name": name,
		"kind": kind,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// CtxWithToken returns a context carrying the token as incoming gRPC metadata.
func CtxWithToken(ctx context.Context, token string) context.Context {
	return metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", "Bearer "+token))
}
