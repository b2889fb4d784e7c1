// Package service implements the volunteer-management operations on top of
// the repository layer. Every operation checks the caller's role before it
// validates input, and reports failures as gRPC status errors that the
// transports translate for their clients.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"volunteerManagement/internal/auth"
	"volunteerManagement/repository"
)

// Options configures a Service. Zero values fall back to sensible defaults
// except JWTSecret, which must be set for token issuance.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	Hasher    auth.PasswordHasher
	Location  *time.Location
	Now       func() time.Time
	Logger    *slog.Logger
}

type Service struct {
	store  *repository.Store
	secret string
	ttl    time.Duration
	hasher auth.PasswordHasher
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger
}

func New(store *repository.Store, opts Options) *Service {
	s := &Service{
		store:  store,
		secret: opts.JWTSecret,
		ttl:    opts.TokenTTL,
		hasher: opts.Hasher,
		loc:    opts.Location,
		now:    opts.Now,
		log:    opts.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = 7 * 24 * time.Hour
	}
	if s.hasher == nil {
		s.hasher = auth.BcryptHasher{}
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Store exposes the underlying repositories, e.g. for health checks.
func (s *Service) Store() *repository.Store {
	return s.store
}

// today is the current date in the configured location, as YYYY-MM-DD.
func (s *Service) today() string {
	return s.now().In(s.loc).Format("2006-01-02")
}

func invalid(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}

func notFound(msg string) error {
	return status.Error(codes.NotFound, msg)
}

// internal wraps an unexpected store failure. Errors that already carry a
// status code pass through unchanged.
func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		return st.Err()
	}
	return status.Errorf(codes.Internal, "%s: %v", op, err)
}

// isNotFound reports whether err is the repository's not-found sentinel.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func fieldError(field, msg string) error {
	return invalid(fmt.Sprintf("%s: %s", field, msg))
}
