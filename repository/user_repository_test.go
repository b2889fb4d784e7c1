package repository_test

import (
	"errors"
	"testing"

	"volunteerManagement/internal/testutil"
	"volunteerManagement/models"
	"volunteerManagement/repository"
)

func TestUserRepository_CreateWithProfile(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)

	phone := "555-0100"
	u, err := s.Users.Create(ctx, &models.User{Username: "alice", Email: "alice@example.org", PasswordHash: "h"}, &phone)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 || u.Profile == nil || u.Profile.PhoneNumber == nil || *u.Profile.PhoneNumber != phone {
		t.Fatalf("unexpected created user: %+v profile=%+v", u, u.Profile)
	}
	if n := testutil.Count(t, s, &models.Profile{}, "user_id = ?", u.ID); n != 1 {
		t.Fatalf("profiles for user = %d, want 1", n)
	}

	g, err := s.Users.GetByID(ctx, u.ID)
	if err != nil || g == nil || g.Username != "alice" || g.Profile == nil {
		t.Fatalf("get by id: %v %+v", err, g)
	}
	if g.Role() != models.RoleVolunteer {
		t.Fatalf("role = %s", g.Role())
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	s := testutil.OpenStore(t)
	testutil.CreateUser(t, s, "alice", false)

	_, err := s.Users.Create(testutil.Ctx(t), &models.User{Username: "alice", PasswordHash: "h"}, nil)
	if !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}
	if n := testutil.Count(t, s, &models.Profile{}, ""); n != 1 {
		t.Fatalf("profiles = %d, want 1 (no orphan from failed create)", n)
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	u := testutil.CreateUser(t, s, "Alice", false)

	if got, err := s.Users.GetByUsername(ctx, "alice"); err != nil || got != nil {
		t.Fatalf("exact lookup should be case sensitive: %+v %v", got, err)
	}
	got, err := s.Users.GetByUsernameFold(ctx, "ALICE")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("fold lookup: %+v %v", got, err)
	}
	missing, err := s.Users.GetByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("missing user: %+v %v", missing, err)
	}
}

func TestUserRepository_ListVolunteersSearch(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	testutil.CreateUser(t, s, "admin", true)
	testutil.CreateUser(t, s, "alice_smith", false)
	testutil.CreateUser(t, s, "alicia", false)
	testutil.CreateUser(t, s, "bob", false)

	all, err := s.Users.ListVolunteers(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %v len=%d", err, len(all))
	}
	ali, err := s.Users.ListVolunteers(ctx, "ALI")
	if err != nil || len(ali) != 2 {
		t.Fatalf("search ali: %v len=%d", err, len(ali))
	}
	both, err := s.Users.ListVolunteers(ctx, "ali smith")
	if err != nil || len(both) != 1 || both[0].Username != "alice_smith" {
		t.Fatalf("search every term: %v %+v", err, both)
	}
	// Underscore is literal, not a LIKE wildcard.
	under, err := s.Users.ListVolunteers(ctx, "e_s")
	if err != nil || len(under) != 1 {
		t.Fatalf("search literal underscore: %v len=%d", err, len(under))
	}
}

func TestUserRepository_UpdatesAndCascadeDelete(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	u := testutil.CreateUser(t, s, "alice", false)
	e := testutil.CreateEvent(t, s, "Food Drive", "2024-05-01")

	if err := s.Users.SetPassword(ctx, u.ID, "new-hash"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := s.Users.SetPassword(ctx, 9999, "x"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("set password on missing user: %v", err)
	}
	if err := s.Users.SetStaffByUsername(ctx, "alice", true); err != nil {
		t.Fatalf("set staff: %v", err)
	}
	g, _ := s.Users.GetByID(ctx, u.ID)
	if g.PasswordHash != "new-hash" || !g.IsStaff {
		t.Fatalf("updates not applied: %+v", g)
	}
	phone := "123"
	if err := s.Users.UpdatePhone(ctx, u.ID, &phone); err != nil {
		t.Fatalf("update phone: %v", err)
	}

	if _, _, err := s.Hours.Upsert(ctx, u.ID, e.ID, 4); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := s.Events.LinkVolunteer(ctx, e.ID, u.ID); err != nil {
		t.Fatalf("link: %v", err)
	}
	testutil.Attend(t, s, u.ID, "Intro", "1.5")

	if err := s.Users.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for name, model := range map[string]any{
		"profiles":           &models.Profile{},
		"volunteer_hours":    &models.VolunteerHours{},
		"attendance_records": &models.AttendanceRecord{},
		"event_volunteers":   &models.EventVolunteer{},
	} {
		if n := testutil.Count(t, s, model, ""); n != 0 {
			t.Fatalf("%s not cascaded: %d rows", name, n)
		}
	}
	if err := s.Users.Delete(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
