package repository_test

import (
	"testing"

	"volunteerManagement/internal/testutil"
	"volunteerManagement/models"
)

func TestHoursRepository_UpsertIsIdempotentPerPair(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	u := testutil.CreateUser(t, s, "alice", false)
	e := testutil.CreateEvent(t, s, "Food Drive", "2024-05-01")

	vh, created, err := s.Hours.Upsert(ctx, u.ID, e.ID, 3)
	if err != nil || !created || vh.Hours != 3 {
		t.Fatalf("first upsert: %+v created=%v err=%v", vh, created, err)
	}
	vh2, created, err := s.Hours.Upsert(ctx, u.ID, e.ID, 7)
	if err != nil || created || vh2.ID != vh.ID || vh2.Hours != 7 {
		t.Fatalf("second upsert: %+v created=%v err=%v", vh2, created, err)
	}
	if n := testutil.Count(t, s, &models.VolunteerHours{}, "volunteer_id = ? AND event_id = ?", u.ID, e.ID); n != 1 {
		t.Fatalf("rows for pair = %d, want 1", n)
	}

	list, err := s.Hours.ListByVolunteer(ctx, u.ID)
	if err != nil || len(list) != 1 || list[0].Hours != 7 || list[0].Event == nil || list[0].Event.Title != "Food Drive" {
		t.Fatalf("list: %v %+v", err, list)
	}
}

func TestHoursRepository_RejectsNegative(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	u := testutil.CreateUser(t, s, "alice", false)
	e := testutil.CreateEvent(t, s, "Food Drive", "2024-05-01")

	if _, _, err := s.Hours.Upsert(ctx, u.ID, e.ID, -1); err == nil {
		t.Fatalf("expected check constraint failure for negative hours")
	}
}
