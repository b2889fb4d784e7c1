package httpapi

import (
	"github.com/shopspring/decimal"

	"volunteerManagement/internal/service"
	"volunteerManagement/models"
	"volunteerManagement/repository"
)

type eventRefJSON struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

type eventJSON struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Volunteers  []string `json:"volunteers"`
}

type upcomingJSON struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

type meetingJSON struct {
	Topic       *string  `json:"topic"`
	OnlineHours *float64 `json:"online_hours"`
}

type attendanceJSON struct {
	ID                int64    `json:"id"`
	Volunteer         int64    `json:"volunteer"`
	VolunteerUsername string   `json:"volunteer_username"`
	Topic             *string  `json:"topic"`
	OnlineHours       *float64 `json:"online_hours"`
}

type profileAttendanceJSON struct {
	Topic *string `json:"topic"`
	Hours float64 `json:"hours"`
}

type tokenJSON struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
}

type registeredJSON struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Token       string  `json:"token"`
}

type userDetailJSON struct {
	ID             int64          `json:"id"`
	Username       string         `json:"username"`
	Email          string         `json:"email"`
	PhoneNumber    *string        `json:"phone_number"`
	HoursWorked    int64          `json:"hours_worked"`
	EventsAttended []eventRefJSON `json:"events_attended"`
	TopicsAttended []*string      `json:"topics_attended"`
}

type volunteerJSON struct {
	ID               int64          `json:"id"`
	Username         string         `json:"username"`
	Email            string         `json:"email"`
	TotalHours       int64          `json:"total_hours"`
	EventsAttended   []eventRefJSON `json:"events_attended"`
	MeetingsAttended []meetingJSON  `json:"meetings_attended"`
	PhoneNumber      *string        `json:"phone_number"`
}

type rosterJSON struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	TotalHours int64  `json:"total_hours"`
}

type profileJSON struct {
	Username       string                  `json:"username"`
	Email          string                  `json:"email"`
	PhoneNumber    *string                 `json:"phone_number"`
	HoursWorked    int64                   `json:"hours_worked"`
	EventsAttended []eventRefJSON          `json:"events_attended"`
	UpcomingEvents []upcomingJSON          `json:"upcoming_events"`
	Attendance     []profileAttendanceJSON `json:"attendance"`
}

// phoneOf returns the profile phone number, or nil when there is no profile.
func phoneOf(u *models.User) *string {
	if u == nil || u.Profile == nil {
		return nil
	}
	return u.Profile.PhoneNumber
}

func floatOf(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func presentEvent(e *models.Event) eventJSON {
	out := eventJSON{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Volunteers:  make([]string, 0, len(e.Volunteers)),
	}
	for _, v := range e.Volunteers {
		out.Volunteers = append(out.Volunteers, v.Username)
	}
	return out
}

func presentEvents(events []models.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for i := range events {
		out = append(out, presentEvent(&events[i]))
	}
	return out
}

func presentEventRefs(refs []repository.EventRef) []eventRefJSON {
	out := make([]eventRefJSON, 0, len(refs))
	for _, r := range refs {
		out = append(out, eventRefJSON{Title: r.Title, Date: r.Date})
	}
	return out
}

func presentToken(res *service.AuthResult) tokenJSON {
	return tokenJSON{
		Token:    res.Token,
		UserID:   res.User.ID,
		Username: res.User.Username,
		IsStaff:  res.User.IsStaff,
	}
}

func presentRegistered(res *service.AuthResult) registeredJSON {
	return registeredJSON{
		ID:          res.User.ID,
		Username:    res.User.Username,
		Email:       res.User.Email,
		PhoneNumber: phoneOf(res.User),
		Token:       res.Token,
	}
}

func presentUserDetail(d *service.UserDetail) userDetailJSON {
	topics := d.TopicsAttended
	if topics == nil {
		topics = []*string{}
	}
	return userDetailJSON{
		ID:             d.User.ID,
		Username:       d.User.Username,
		Email:          d.User.Email,
		PhoneNumber:    phoneOf(d.User),
		HoursWorked:    d.TotalHours,
		EventsAttended: presentEventRefs(d.EventsAttended),
		TopicsAttended: topics,
	}
}

func presentVolunteers(vs []service.VolunteerSummary) []volunteerJSON {
	out := make([]volunteerJSON, 0, len(vs))
	for i := range vs {
		v := &vs[i]
		meetings := make([]meetingJSON, 0, len(v.MeetingsAttended))
		for _, m := range v.MeetingsAttended {
			meetings = append(meetings, meetingJSON{Topic: m.Topic, OnlineHours: floatOf(m.OnlineHours)})
		}
		out = append(out, volunteerJSON{
			ID:               v.User.ID,
			Username:         v.User.Username,
			Email:            v.User.Email,
			TotalHours:       v.TotalHours,
			EventsAttended:   presentEventRefs(v.EventsAttended),
			MeetingsAttended: meetings,
			PhoneNumber:      phoneOf(&v.User),
		})
	}
	return out
}

func presentRoster(entries []repository.RosterEntry) []rosterJSON {
	out := make([]rosterJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, rosterJSON(e))
	}
	return out
}

func presentAttendance(recs []models.AttendanceRecord) []attendanceJSON {
	out := make([]attendanceJSON, 0, len(recs))
	for _, r := range recs {
		a := attendanceJSON{
			ID:          r.ID,
			Volunteer:   r.VolunteerID,
			Topic:       r.Topic,
			OnlineHours: floatOf(r.OnlineHours),
		}
		if r.Volunteer != nil {
			a.VolunteerUsername = r.Volunteer.Username
		}
		out = append(out, a)
	}
	return out
}

// presentProfile reports missing attendance hours as 0.
func presentProfile(p *service.Profile) profileJSON {
	out := profileJSON{
		Username:       p.User.Username,
		Email:          p.User.Email,
		PhoneNumber:    phoneOf(p.User),
		HoursWorked:    p.TotalHours,
		EventsAttended: presentEventRefs(p.EventsAttended),
		UpcomingEvents: make([]upcomingJSON, 0, len(p.UpcomingEvents)),
		Attendance:     make([]profileAttendanceJSON, 0, len(p.Attendance)),
	}
	for _, e := range p.UpcomingEvents {
		out.UpcomingEvents = append(out.UpcomingEvents, upcomingJSON{
			Title: e.Title, Date: e.Date, Time: e.Time, Description: e.Description,
		})
	}
	for _, r := range p.Attendance {
		var hours float64
		if f := floatOf(r.OnlineHours); f != nil {
			hours = *f
		}
		out.Attendance = append(out.Attendance, profileAttendanceJSON{Topic: r.Topic, Hours: hours})
	}
	return out
}
