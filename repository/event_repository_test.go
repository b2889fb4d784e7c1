package repository_test

import (
	"errors"
	"testing"

	"volunteerManagement/internal/testutil"
	"volunteerManagement/models"
	"volunteerManagement/repository"
)

func TestEventRepository_CRUD(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	alice := testutil.CreateUser(t, s, "alice", false)
	bob := testutil.CreateUser(t, s, "bob", false)

	e, err := s.Events.Create(ctx, &models.Event{Title: "Food Drive", Description: "cans", Date: "2024-05-01"}, []int64{alice.ID, alice.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Time != models.DefaultEventTime {
		t.Fatalf("time = %q, want default", e.Time)
	}
	if len(e.Volunteers) != 1 || e.Volunteers[0].ID != alice.ID {
		t.Fatalf("volunteers = %+v", e.Volunteers)
	}

	e.Title = "Food Drive II"
	ids := []int64{bob.ID}
	if err := s.Events.Update(ctx, e, &ids); err != nil {
		t.Fatalf("update: %v", err)
	}
	g, err := s.Events.GetByID(ctx, e.ID)
	if err != nil || g == nil || g.Title != "Food Drive II" || len(g.Volunteers) != 1 || g.Volunteers[0].ID != bob.ID {
		t.Fatalf("after update: %v %+v", err, g)
	}

	// nil volunteer list keeps links.
	g.Description = "more cans"
	if err := s.Events.Update(ctx, g, nil); err != nil {
		t.Fatalf("update without volunteers: %v", err)
	}
	if linked, _ := s.Events.IsLinked(ctx, e.ID, bob.ID); !linked {
		t.Fatalf("bob should still be linked")
	}

	if err := s.Events.Update(ctx, &models.Event{ID: 9999, Title: "x", Date: "2024-01-01", Time: "00:00:00"}, nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}

	if _, _, err := s.Hours.Upsert(ctx, bob.ID, e.ID, 3); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Events.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := testutil.Count(t, s, &models.VolunteerHours{}, ""); n != 0 {
		t.Fatalf("hours not cascaded: %d", n)
	}
	if gone, err := s.Events.GetByID(ctx, e.ID); err != nil || gone != nil {
		t.Fatalf("expected event deleted: %+v %v", gone, err)
	}
}

func TestEventRepository_TitleAndDateMatchesFullSet(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	first := testutil.CreateEvent(t, s, "Food Drive", "2024-05-01")
	testutil.CreateEvent(t, s, "Food Drive", "2024-05-01")
	testutil.CreateEvent(t, s, "Food Drive", "2024-06-01")

	found, err := s.Events.FindByTitleAndDate(ctx, "Food Drive", "2024-05-01")
	if err != nil || len(found) != 2 || found[0].ID != first.ID {
		t.Fatalf("find: %v %+v", err, found)
	}

	n, err := s.Events.DeleteByTitleAndDate(ctx, "Food Drive", "2024-05-01")
	if err != nil || n != 2 {
		t.Fatalf("delete by title/date: n=%d err=%v", n, err)
	}
	n, err = s.Events.DeleteByTitleAndDate(ctx, "Food Drive", "2024-05-01")
	if err != nil || n != 0 {
		t.Fatalf("second delete: n=%d err=%v", n, err)
	}
	if left := testutil.Count(t, s, &models.Event{}, ""); left != 1 {
		t.Fatalf("events left = %d, want 1", left)
	}
}

func TestEventRepository_LinkVolunteerOnce(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	u := testutil.CreateUser(t, s, "alice", false)
	e := testutil.CreateEvent(t, s, "Cleanup", "2024-05-01")

	created, err := s.Events.LinkVolunteer(ctx, e.ID, u.ID)
	if err != nil || !created {
		t.Fatalf("first link: created=%v err=%v", created, err)
	}
	created, err = s.Events.LinkVolunteer(ctx, e.ID, u.ID)
	if err != nil || created {
		t.Fatalf("second link: created=%v err=%v", created, err)
	}
	if n := testutil.Count(t, s, &models.EventVolunteer{}, ""); n != 1 {
		t.Fatalf("links = %d, want 1", n)
	}
}

func TestEventRepository_ListAndUpcoming(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	testutil.CreateEvent(t, s, "Beach Cleanup", "2024-01-10")
	testutil.CreateEvent(t, s, "Food Drive", "2024-03-01")
	testutil.CreateEvent(t, s, "Park Cleanup", "2024-02-01")

	all, err := s.Events.List(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("list: %v len=%d", err, len(all))
	}
	clean, err := s.Events.List(ctx, "cleanup")
	if err != nil || len(clean) != 2 {
		t.Fatalf("search: %v len=%d", err, len(clean))
	}

	up, err := s.Events.ListUpcoming(ctx, "2024-02-01")
	if err != nil || len(up) != 2 || up[0].Title != "Park Cleanup" || up[1].Title != "Food Drive" {
		t.Fatalf("upcoming: %v %+v", err, up)
	}
}
