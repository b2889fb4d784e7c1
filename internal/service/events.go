package service

import (
	"context"
	"fmt"
	"strings"

	"volunteerManagement/internal/auth"
	"volunteerManagement/internal/metrics"
	"volunteerManagement/models"
)

// EventInput carries event fields for create and partial update. Nil fields
// are left unchanged on update; Volunteers lists usernames.
type EventInput struct {
	Title       *string   `json:"title" validate:"omitempty,max=255"`
	Description *string   `json:"description"`
	Date        *string   `json:"date"`
	Time        *string   `json:"time"`
	Volunteers  *[]string `json:"volunteers"`
}

// ListEvents returns all events for administrators.
func (s *Service) ListEvents(ctx context.Context) ([]models.Event, error) {
	if _, err := auth.RequireAdmin(ctx, s.store.Users); err != nil {
		return nil, err
	}
	out, err := s.store.Events.List(ctx, "")
	if err != nil {
		return nil, internal("list events", err)
	}
	return out, nil
}

// SearchEvents returns events whose title contains every search term. Any
// authenticated user may search.
func (s *Service) SearchEvents(ctx context.Context, search string) ([]models.Event, error) {
	if _, err := auth.RequireUser(ctx, s.store.Users); err != nil {
		return nil, err
	}
	out, err := s.store.Events.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, internal("search events", err)
	}
	return out, nil
}

func (s *Service) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	if _, err := auth.RequireUser(ctx, s.store.Users); err != nil {
		return nil, err
	}
	e, err := s.store.Events.GetByID(ctx, id)
	if err != nil {
		return nil, internal("get event", err)
	}
	if e == nil {
		return nil, notFound("Event not found.")
	}
	return e, nil
}

func (s *Service) CreateEvent(ctx context.Context, in EventInput) (*models.Event, error) {
	if _, err := auth.RequireAdmin(ctx, s.store.Users); err != nil {
		return nil, err
	}
	required := []struct {
		field string
		value *string
	}{{"title", in.Title}, {"description", in.Description}, {"date", in.Date}}
	for _, r := range required {
		if r.value == nil || strings.TrimSpace(*r.value) == "" {
			return nil, fieldError(r.field, "This field is required.")
		}
	}
	e := &models.Event{Title: *in.Title, Description: *in.Description}
	if err := s.applyEventFields(e, in); err != nil {
		return nil, err
	}
	var ids []int64
	if in.Volunteers != nil {
		var err error
		if ids, err = s.resolveVolunteers(ctx, *in.Volunteers); err != nil {
			return nil, err
		}
	}
	created, err := s.store.Events.Create(ctx, e, ids)
	if err != nil {
		return nil, internal("create event", err)
	}
	s.log.Info("event created", "event_id", created.ID, "title", created.Title, "date", created.Date)
	return created, nil
}

// UpdateEvent applies the non-nil fields of in to the event.
func (s *Service) UpdateEvent(ctx context.Context, id int64, in EventInput) (*models.Event, error) {
	if _, err := auth.RequireAdmin(ctx, s.store.Users); err != nil {
		return nil, err
	}
	e, err := s.store.Events.GetByID(ctx, id)
	if err != nil {
		return nil, internal("get event", err)
	}
	if e == nil {
		return nil, notFound("Event not found.")
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, fieldError("title", "This field may not be blank.")
		}
		e.Title = *in.Title
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return nil, fieldError("description", "This field may not be blank.")
		}
		e.Description = *in.Description
	}
	if err := s.applyEventFields(e, in); err != nil {
		return nil, err
	}
	var ids *[]int64
	if in.Volunteers != nil {
		resolved, err := s.resolveVolunteers(ctx, *in.Volunteers)
		if err != nil {
			return nil, err
		}
		ids = &resolved
	}
	if err := s.store.Events.Update(ctx, e, ids); err != nil {
		if isNotFound(err) {
			return nil, notFound("Event not found.")
		}
		return nil, internal("update event", err)
	}
	out, err := s.store.Events.GetByID(ctx, id)
	if err != nil {
		return nil, internal("get event", err)
	}
	if out == nil {
		return nil, notFound("Event not found.")
	}
	return out, nil
}

// DeleteEventByID removes a single event.
func (s *Service) DeleteEventByID(ctx context.Context, id int64) error {
	if _, err := auth.RequireAdmin(ctx, s.store.Users); err != nil {
		return err
	}
	if err := s.store.Events.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return notFound("Event not found.")
		}
		return internal("delete event", err)
	}
	metrics.EventsDeleted.Inc()
	s.log.Info("event deleted", "event_id", id)
	return nil
}

// DeleteEvent removes every event with the given title and date and reports
// how many were deleted.
func (s *Service) DeleteEvent(ctx context.Context, title, date string) (int64, error) {
	if _, err := auth.RequireAdmin(ctx, s.store.Users); err != nil {
		return 0, err
	}
	if title == "" || date == "" {
		return 0, invalid("Both event_name and event_date are required")
	}
	day, err := models.ParseDate(date)
	if err != nil {
		return 0, fieldError("event_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	n, err := s.store.Events.DeleteByTitleAndDate(ctx, title, day)
	if err != nil {
		return 0, internal("delete events", err)
	}
	if n == 0 {
		return 0, notFound("No matching events found")
	}
	metrics.EventsDeleted.Add(float64(n))
	s.log.Info("events deleted", "title", title, "date", day, "count", n)
	return n, nil
}

// applyEventFields validates and copies the title length, date and time of in
// onto e.
func (s *Service) applyEventFields(e *models.Event, in EventInput) error {
	if err := check(in); err != nil {
		return err
	}
	if in.Date != nil {
		day, err := models.ParseDate(*in.Date)
		if err != nil {
			return fieldError("date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		}
		e.Date = day
	}
	if in.Time != nil {
		t, err := models.ParseTime(*in.Time)
		if err != nil {
			return fieldError("time", "Time has wrong format. Use one of these formats instead: hh:mm[:ss].")
		}
		e.Time = t
	} else if e.Time == "" {
		e.Time = models.DefaultEventTime
	}
	return nil
}

// resolveVolunteers maps usernames to user ids. Every username must exist.
func (s *Service) resolveVolunteers(ctx context.Context, usernames []string) ([]int64, error) {
	ids := make([]int64, 0, len(usernames))
	for _, name := range usernames {
		u, err := s.store.Users.GetByUsername(ctx, name)
		if err != nil {
			return nil, internal("get user", err)
		}
		if u == nil {
			return nil, fieldError("volunteers", fmt.Sprintf("Object with username=%s does not exist.", name))
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}
