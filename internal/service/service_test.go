package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"volunteerManagement/internal/auth"
	"volunteerManagement/internal/testutil"
	"volunteerManagement/models"
	"volunteerManagement/repository"
)

const testSecret = "test-secret"

// fixedNow is 2024-05-01 23:30 UTC, already May 2nd in Auckland.
var fixedNow = time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()
	store := testutil.OpenStore(t)
	loc, err := time.LoadLocation("Pacific/Auckland")
	require.NoError(t, err)
	svc := New(store, Options{
		JWTSecret: testSecret,
		TokenTTL:  time.Hour,
		Hasher:    auth.BcryptHasher{Cost: bcrypt.MinCost},
		Location:  loc,
		Now:       func() time.Time { return fixedNow },
	})
	return svc, store
}

// as returns a context authenticated as u.
func as(t *testing.T, u *models.User) context.Context {
	t.Helper()
	return auth.WithPrincipal(testutil.Ctx(t), &auth.Principal{UserID: u.ID, Name: u.Username, Kind: u.Role()})
}

func requireCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, status.Code(err), "error: %v", err)
}

func TestNew_Defaults(t *testing.T) {
	svc := New(testutil.OpenStore(t), Options{})
	require.Equal(t, 7*24*time.Hour, svc.ttl)
	require.NotNil(t, svc.hasher)
	require.NotNil(t, svc.now)
	require.NotNil(t, svc.log)
	require.Equal(t, time.Local, svc.loc)
}

func TestService_Today_UsesConfiguredLocation(t *testing.T) {
	svc, _ := newTestService(t)
	require.Equal(t, "2024-05-02", svc.today())
}

func TestInternal_PassesStatusThrough(t *testing.T) {
	err := internal("op", notFound("gone"))
	require.Equal(t, codes.NotFound, status.Code(err))
	require.Nil(t, internal("op", nil))
	require.Equal(t, codes.Internal, status.Code(internal("op", context.DeadlineExceeded)))
}
