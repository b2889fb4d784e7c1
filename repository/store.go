package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned by updates and deletes that matched no row. Single-row
// getters return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")

const (
	rowTimeout  = 3 * time.Second
	listTimeout = 5 * time.Second
)

// Store bundles the repositories over one GORM handle, which is either the
// pool or an open transaction.
type Store struct {
	db *gorm.DB

	Users      *UserRepository
	Events     *EventRepository
	Hours      *HoursRepository
	Attendance *AttendanceRepository
	Summary    *SummaryQuery
}

// NewStore builds all repositories over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Users:      NewUserRepository(db),
		Events:     NewEventRepository(db),
		Hours:      NewHoursRepository(db),
		Attendance: NewAttendanceRepository(db),
		Summary:    NewSummaryQuery(db),
	}
}

// Transaction runs fn against a Store bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for health checks and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// searchTerms splits a search string the way the front end's search box is
// interpreted: whitespace or comma separated, every term must match.
func searchTerms(q string) []string {
	q = strings.ReplaceAll(q, "\x00", "")
	fields := strings.FieldsFunc(q, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// containsAll narrows q to rows whose column contains every term, case-insensitively.
func containsAll(q *gorm.DB, column, search string) *gorm.DB {
	for _, term := range searchTerms(search) {
		q = q.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(term))+"%")
	}
	return q
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
