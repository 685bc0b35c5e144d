package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flextrack/timetrack-be/internal/models"
)

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestHoursService_Create_DuplicateDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", 8)
	bob := createTestUser(t, db, "bob", 8)

	_, err := svc.Create(ctx, alice.ID, date(t, "2022-12-05"), 8, "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice.ID, date(t, "2022-12-05"), 6, "again")
	assert.ErrorIs(t, err, ErrConflict)

	// A different owner may track the same date.
	_, err = svc.Create(ctx, bob.ID, date(t, "2022-12-05"), 8, "")
	assert.NoError(t, err)
}

func TestHoursService_Create_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "carol", 8)

	_, err := svc.Create(ctx, user.ID, date(t, "2022-12-06"), 25, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-06"), -1, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-06"), 8, strings.Repeat("x", 65))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Boundaries are inclusive.
	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-06"), 0, strings.Repeat("x", 64))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-07"), 24, "")
	assert.NoError(t, err)
}

func TestHoursService_CommentLengthCountsRunes(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "zoe", 8)

	// 64 two-byte characters are within the limit even though they exceed
	// 64 bytes.
	entry, err := svc.Create(ctx, user.ID, date(t, "2022-12-12"), 8, strings.Repeat("ü", 64))
	require.NoError(t, err)

	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-13"), 8, strings.Repeat("ü", 65))
	assert.ErrorIs(t, err, ErrInvalidInput)

	long := strings.Repeat("ü", 65)
	_, err = svc.Update(ctx, user.ID, entry.ID, nil, &long)
	assert.ErrorIs(t, err, ErrInvalidInput)

	ok := strings.Repeat("ü", 64)
	_, err = svc.Update(ctx, user.ID, entry.ID, nil, &ok)
	assert.NoError(t, err)
}

func TestHoursService_Get_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "dave", 8)
	other := createTestUser(t, db, "erin", 8)

	entry, err := svc.Create(ctx, owner.ID, date(t, "2022-12-08"), 8, "")
	require.NoError(t, err)

	// A foreign id is indistinguishable from a missing one.
	_, err = svc.Get(ctx, other.ID, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(ctx, owner.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, owner.ID, got.UserID)
}

func TestHoursService_Update(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "frank", 8)
	entry, err := svc.Create(ctx, user.ID, date(t, "2022-12-09"), 8, "initial")
	require.NoError(t, err)

	// Only supplied fields change.
	hours := 6.5
	updated, err := svc.Update(ctx, user.ID, entry.ID, &hours, nil)
	require.NoError(t, err)
	assert.Equal(t, 6.5, updated.Hours)
	assert.Equal(t, "initial", updated.Comment)

	comment := "afternoon off"
	updated, err = svc.Update(ctx, user.ID, entry.ID, nil, &comment)
	require.NoError(t, err)
	assert.Equal(t, 6.5, updated.Hours)
	assert.Equal(t, "afternoon off", updated.Comment)

	// Out-of-range hours are rejected, not silently dropped.
	bad := 30.0
	_, err = svc.Update(ctx, user.ID, entry.ID, &bad, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	got, err := svc.Get(ctx, user.ID, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.5, got.Hours)

	longComment := strings.Repeat("y", 65)
	_, err = svc.Update(ctx, user.ID, entry.ID, nil, &longComment)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, user.ID, "missing-id", &hours, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHoursService_DeleteTwice(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "grace", 8)
	entry, err := svc.Create(ctx, user.ID, date(t, "2022-12-10"), 8, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID, entry.ID))
	assert.ErrorIs(t, svc.Delete(ctx, user.ID, entry.ID), ErrNotFound)
}

func TestHoursService_Delete_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "heidi", 8)
	other := createTestUser(t, db, "ivan", 8)

	entry, err := svc.Create(ctx, owner.ID, date(t, "2022-12-11"), 8, "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, other.ID, entry.ID), ErrNotFound)

	// The owner's record survived the foreign delete attempt.
	_, err = svc.Get(ctx, owner.ID, entry.ID)
	assert.NoError(t, err)
}

func TestHoursService_ListByMonth_YearRollover(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "judy", 8)
	for _, day := range []string{"2022-12-31", "2022-12-01", "2023-01-01", "2022-11-30"} {
		_, err := svc.Create(ctx, user.ID, date(t, day), 8, "")
		require.NoError(t, err)
	}

	december, err := svc.ListByMonth(ctx, user.ID, 2022, 12)
	require.NoError(t, err)
	require.Len(t, december, 2)
	// Ascending by date, December 31st included, January 1st excluded.
	assert.Equal(t, "2022-12-01", december[0].Date.Key())
	assert.Equal(t, "2022-12-31", december[1].Date.Key())

	january, err := svc.ListByMonth(ctx, user.ID, 2023, 1)
	require.NoError(t, err)
	require.Len(t, january, 1)
	assert.Equal(t, "2023-01-01", january[0].Date.Key())
}

func TestHoursService_List(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "mallory", 8)
	other := createTestUser(t, db, "oscar", 8)

	for i, day := range []string{"2022-12-01", "2022-12-02", "2022-12-03"} {
		_, err := svc.Create(ctx, user.ID, date(t, day), float64(6+i), "")
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, other.ID, date(t, "2022-12-01"), 8, "")
	require.NoError(t, err)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	for _, entry := range list {
		assert.Equal(t, user.ID, entry.UserID)
	}
}

func TestHoursService_Summarize(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "peggy", 8)

	// No entries yet: all zeroes, not an error.
	summary, err := svc.Summarize(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)

	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-01"), 9, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-02"), 7, "")
	require.NoError(t, err)

	summary, err = svc.Summarize(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.WorkedDays)
	assert.Equal(t, 16.0, summary.WorkedHours)
	assert.Equal(t, 0.0, summary.Flextime)
}

func TestHoursService_Summarize_Rounding(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "ruth", 7.8)

	_, err := svc.Create(ctx, user.ID, date(t, "2022-12-01"), 8.25, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-02"), 7.1, "")
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 15.35, summary.WorkedHours)
	assert.Equal(t, -0.25, summary.Flextime)
}

func TestHoursService_Summarize_FlextimeFromRoundedHours(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "sybil", 8.1205)

	_, err := svc.Create(ctx, user.ID, date(t, "2022-12-01"), 8.1451, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, date(t, "2022-12-02"), 8.1, "")
	require.NoError(t, err)

	// The raw sum 16.2451 rounds to 16.25, and flextime uses that rounded
	// figure: 16.25 - 2*8.1205 = 0.009 -> 0.01. Deriving it from the raw
	// sum instead would report 0.00 and disagree with the shown hours.
	summary, err := svc.Summarize(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 16.25, summary.WorkedHours)
	assert.Equal(t, 0.01, summary.Flextime)
}

// Guard against accidental timezone drift in date handling.
func TestDateRoundTrip(t *testing.T) {
	d, err := models.ParseDate("2022-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2022-12-31", d.Key())
	assert.Equal(t, time.December, d.Month())

	raw, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"31.12.2022"`, string(raw))
}
