package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"volunteerManagement/internal/auth"
	"volunteerManagement/internal/metrics"
	"volunteerManagement/models"
	"volunteerManagement/repository"
)

// Number is a numeric request value that may arrive as a JSON number or as a
// string. The literal text is kept so it can be parsed exactly.
type Number struct {
	text string
	set  bool
}

// NumberOf wraps s as a Number.
func NumberOf(s string) Number {
	return Number{text: strings.TrimSpace(s), set: true}
}

// UnmarshalJSON accepts numbers, strings and null. Any other JSON value is
// kept verbatim and fails later when parsed.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case string(b) == "null":
		*n = Number{}
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberOf(s)
	default:
		*n = Number{text: string(b), set: true}
	}
	return nil
}

func (n Number) String() string { return n.text }

// Empty reports whether the value is absent, null or an empty string.
func (n Number) Empty() bool { return !n.set || n.text == "" }

// maxExponent bounds the decimal exponent of a Number. Values outside it are
// rejected before any comparison or rounding rescales them.
const maxExponent = 20

func (n Number) decimal() (decimal.Decimal, error) {
	if !n.set {
		return decimal.Zero, errors.New("no value")
	}
	d, err := decimal.NewFromString(n.text)
	if err != nil {
		return decimal.Zero, err
	}
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, fmt.Errorf("%s is out of range", n.text)
	}
	return d, nil
}

const maxGrantHours = 2147483647

var (
	maxGrant      = decimal.NewFromInt(maxGrantHours)
	onlineHourCap = decimal.NewFromInt(1000)
)

// parseGrantHours accepts a non-negative whole number of hours, written either
// as an integer or as an integral decimal such as "3.0".
func parseGrantHours(n Number) (int64, error) {
	d, err := n.decimal()
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || d.IsNegative() || d.GreaterThan(maxGrant) {
		return 0, fmt.Errorf("%s is not a non-negative whole number", n.text)
	}
	return d.IntPart(), nil
}

// parseOnlineHours parses a decimal rounded to two places with at most five
// digits in total.
func parseOnlineHours(n Number) (decimal.Decimal, error) {
	d, err := n.decimal()
	if err != nil {
		return decimal.Zero, err
	}
	d = d.Round(2)
	if d.Abs().GreaterThanOrEqual(onlineHourCap) {
		return decimal.Zero, fmt.Errorf("%s has more than 5 digits", n.text)
	}
	return d, nil
}

// AssignHoursInput is the body of an hour assignment.
type AssignHoursInput struct {
	Volunteer string `json:"volunteer"`
	Event     string `json:"event"`
	EventDate string `json:"event_date"`
	Hours     Number `json:"hours"`
}

// AssignResult describes what AssignHours changed.
type AssignResult struct {
	Hours *models.VolunteerHours
	// Created is false when an existing grant was overwritten.
	Created bool
	// Linked is true when the volunteer was newly added to the event.
	Linked bool
}

// AssignHours sets the volunteer's hours for the event named by title and
// date, adding the volunteer to the event's participants if needed. Lookup,
// link and upsert run in one transaction. When several events share the title
// and date the one with the lowest id is used.
func (s *Service) AssignHours(ctx context.Context, in AssignHoursInput) (*AssignResult, error) {
	p, err := auth.RequireAdmin(ctx, s.store.Users)
	if err != nil {
		return nil, err
	}
	if in.Volunteer == "" || in.Event == "" || in.EventDate == "" || in.Hours.Empty() {
		return nil, invalid("Missing required fields")
	}
	day, err := models.ParseDate(in.EventDate)
	if err != nil {
		return nil, fieldError("event_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	hours, err := parseGrantHours(in.Hours)
	if err != nil {
		return nil, fieldError("hours", "A valid non-negative integer is required.")
	}

	var res AssignResult
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		u, err := tx.Users.GetByUsername(ctx, in.Volunteer)
		if err != nil {
			return internal("get user", err)
		}
		if u == nil {
			return notFound("Volunteer not found.")
		}
		events, err := tx.Events.FindByTitleAndDate(ctx, in.Event, day)
		if err != nil {
			return internal("find event", err)
		}
		if len(events) == 0 {
			return notFound("Event not found.")
		}
		if len(events) > 1 {
			s.log.Warn("several events share title and date; using the oldest",
				"title", in.Event, "date", day, "matches", len(events), "event_id", events[0].ID)
		}
		e := events[0]
		if res.Linked, err = tx.Events.LinkVolunteer(ctx, e.ID, u.ID); err != nil {
			return internal("link volunteer", err)
		}
		if res.Hours, res.Created, err = tx.Hours.Upsert(ctx, u.ID, e.ID, hours); err != nil {
			return internal("upsert hours", err)
		}
		return nil
	})
	if err != nil {
		return nil, internal("assign hours", err)
	}

	result := "updated"
	if res.Created {
		result = "created"
	}
	metrics.HoursAssigned.WithLabelValues(result).Inc()
	s.log.Info("hours assigned", "volunteer", in.Volunteer, "event_id", res.Hours.EventID,
		"hours", hours, "created", res.Created, "linked", res.Linked, "by", p.Name)
	return &res, nil
}

// MarkAttendanceInput is the body of an attendance marking. VolunteerHours
// maps usernames to online hours.
type MarkAttendanceInput struct {
	Topic          string            `json:"topic"`
	VolunteerHours map[string]Number `json:"volunteer_hours"`
}

// MarkAttendance appends one attendance record per volunteer named in
// in.VolunteerHours and returns how many were written. Volunteers are visited
// in id order; unknown and staff usernames are ignored. A nil map is not a
// mapping and is rejected. A value that does not parse fails the whole call
// and nothing is written.
func (s *Service) MarkAttendance(ctx context.Context, in MarkAttendanceInput) (int, error) {
	p, err := auth.RequireAdmin(ctx, s.store.Users)
	if err != nil {
		return 0, err
	}
	if in.Topic == "" {
		return 0, invalid("Topic is required.")
	}
	if len(in.Topic) > 255 {
		return 0, fieldError("topic", "Ensure this field has no more than 255 characters.")
	}
	if in.VolunteerHours == nil {
		return 0, invalid("Invalid format for volunteer_hours.")
	}

	count := 0
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		count = 0
		volunteers, err := tx.Users.ListVolunteers(ctx, "")
		if err != nil {
			return internal("list volunteers", err)
		}
		for _, v := range volunteers {
			raw, ok := in.VolunteerHours[v.Username]
			if !ok {
				continue
			}
			hours, err := parseOnlineHours(raw)
			if err != nil {
				return invalid(fmt.Sprintf("Invalid hours for %s.", v.Username))
			}
			topic := in.Topic
			rec := &models.AttendanceRecord{
				VolunteerID: v.ID,
				Topic:       &topic,
				OnlineHours: decimal.NewNullDecimal(hours),
			}
			if _, err := tx.Attendance.Create(ctx, rec); err != nil {
				return internal("create attendance", err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, internal("mark attendance", err)
	}

	metrics.AttendanceRecorded.Add(float64(count))
	s.log.Info("attendance marked", "topic", in.Topic, "records", count, "by", p.Name)
	return count, nil
}
