package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteerManagement/internal/testutil"
)

func TestSummaryQuery_TotalHours(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	alice := testutil.CreateUser(t, s, "alice", false)
	bob := testutil.CreateUser(t, s, "bob", false)
	e1 := testutil.CreateEvent(t, s, "A", "2024-05-01")
	e2 := testutil.CreateEvent(t, s, "B", "2024-05-02")

	_, _, err := s.Hours.Upsert(ctx, alice.ID, e1.ID, 3)
	require.NoError(t, err)
	_, _, err = s.Hours.Upsert(ctx, alice.ID, e2.ID, 4)
	require.NoError(t, err)

	total, err := s.Summary.TotalHours(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)

	total, err = s.Summary.TotalHours(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestSummaryQuery_EventsAttendedUsesParticipation(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	alice := testutil.CreateUser(t, s, "alice", false)
	late := testutil.CreateEvent(t, s, "Late", "2024-07-01")
	early := testutil.CreateEvent(t, s, "Early", "2024-03-01")
	testutil.CreateEvent(t, s, "Other", "2024-04-01")

	_, err := s.Events.LinkVolunteer(ctx, late.ID, alice.ID)
	require.NoError(t, err)
	_, err = s.Events.LinkVolunteer(ctx, early.ID, alice.ID)
	require.NoError(t, err)

	refs, err := s.Summary.EventsAttended(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Early", refs[0].Title)
	assert.Equal(t, "2024-03-01", refs[0].Date)
	assert.Equal(t, "Late", refs[1].Title)
}

func TestSummaryQuery_TopicsAttended(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	alice := testutil.CreateUser(t, s, "alice", false)

	testutil.Attend(t, s, alice.ID, "Orientation", "1.25")
	testutil.Attend(t, s, alice.ID, "Skipped", "0")
	testutil.Attend(t, s, alice.ID, "No hours", "")
	testutil.Attend(t, s, alice.ID, "Orientation", "2")

	topics, err := s.Summary.TopicsAttended(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Orientation", *topics[0])
	assert.Equal(t, "Orientation", *topics[1])

	meetings, err := s.Summary.MeetingsAttended(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.Equal(t, 2.0, meetings[0].OnlineHours.Decimal.InexactFloat64())
	assert.Equal(t, 1.25, meetings[1].OnlineHours.Decimal.InexactFloat64())
}

func TestSummaryQuery_RosterIncludesZeroHourVolunteers(t *testing.T) {
	s := testutil.OpenStore(t)
	ctx := testutil.Ctx(t)
	testutil.CreateUser(t, s, "admin", true)
	alice := testutil.CreateUser(t, s, "alice", false)
	bob := testutil.CreateUser(t, s, "bob", false)
	e := testutil.CreateEvent(t, s, "A", "2024-05-01")
	_, _, err := s.Hours.Upsert(ctx, alice.ID, e.ID, 5)
	require.NoError(t, err)

	roster, err := s.Summary.RosterSummary(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, alice.ID, roster[0].ID)
	assert.EqualValues(t, 5, roster[0].TotalHours)
	assert.Equal(t, bob.ID, roster[1].ID)
	assert.Equal(t, "bob", roster[1].Username)
	assert.Equal(t, "bob@example.org", roster[1].Email)
	assert.EqualValues(t, 0, roster[1].TotalHours)
}
