package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testLoc = schedule.LocationID("loc-1")

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testShift(id schedule.ShiftID, emp schedule.EmployeeID, date, start, end string) schedule.Shift {
	s := schedule.Shift{
		ID:         id,
		EmployeeID: emp,
		LocationID: testLoc,
		Date:       schedule.MustDate(date),
		Start:      schedule.MustClock(start),
		End:        schedule.MustClock(end),
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	s.Hours = schedule.ComputeHours(s.Start, s.End)
	return s
}

func tr(open, close string) schedule.TimeRange {
	return schedule.TimeRange{Open: schedule.MustClock(open), Close: schedule.MustClock(close)}
}

// =============================================================================
// SHIFT ROUND TRIPS
// =============================================================================

func TestSQLite_ShiftRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := testShift("shift-1", "emp-1", "2026-09-07", "09:00", "17:30")
	require.NoError(t, store.CreateShift(ctx, in))

	shifts, err := store.ShiftsByLocation(ctx, testLoc)
	require.NoError(t, err)
	require.Len(t, shifts, 1)

	got := shifts[0]
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, in.EmployeeID, got.EmployeeID)
	assert.Equal(t, "2026-09-07", got.Date.String())
	assert.Equal(t, "09:00", got.Start.String())
	assert.Equal(t, "17:30", got.End.String())
	assert.True(t, got.Hours.Equal(decimal.RequireFromString("8.5")), "hours should survive exactly, got %s", got.Hours)
	assert.False(t, got.Published)
	assert.Equal(t, int64(1), got.Version)
}

func TestSQLite_CreateShift_OverlapOnWrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateShift(ctx, testShift("shift-1", "emp-1", "2026-09-07", "09:00", "13:00")))

	err := store.CreateShift(ctx, testShift("shift-2", "emp-1", "2026-09-07", "12:00", "18:00"))
	assert.ErrorIs(t, err, schedule.ErrOverlapOnWrite)

	// Back to back is fine; so is the same interval for another employee.
	assert.NoError(t, store.CreateShift(ctx, testShift("shift-3", "emp-1", "2026-09-07", "13:00", "18:00")))
	assert.NoError(t, store.CreateShift(ctx, testShift("shift-4", "emp-2", "2026-09-07", "12:00", "18:00")))
}

func TestSQLite_UpdateShift_VersionConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := testShift("shift-1", "emp-1", "2026-09-07", "09:00", "17:00")
	require.NoError(t, store.CreateShift(ctx, in))

	// Matching version succeeds and bumps.
	in.End = schedule.MustClock("18:00")
	require.NoError(t, store.UpdateShift(ctx, in, 1))

	// Stale version is rejected.
	in.End = schedule.MustClock("19:00")
	err := store.UpdateShift(ctx, in, 1)
	assert.ErrorIs(t, err, schedule.ErrVersionConflict)

	// Unknown ID is not a version conflict.
	missing := testShift("shift-missing", "emp-1", "2026-09-08", "09:00", "17:00")
	err = store.UpdateShift(ctx, missing, 1)
	assert.ErrorIs(t, err, schedule.ErrShiftNotFound)

	shifts, err := store.ShiftsByLocation(ctx, testLoc)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "18:00", shifts[0].End.String())
	assert.Equal(t, int64(2), shifts[0].Version)
}

func TestSQLite_UpdateShift_OverlapExcludesSelf(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := testShift("shift-1", "emp-1", "2026-09-07", "09:00", "15:00")
	require.NoError(t, store.CreateShift(ctx, in))

	// Shifting the same record by an hour overlaps only itself.
	in.Start = schedule.MustClock("10:00")
	in.End = schedule.MustClock("16:00")
	assert.NoError(t, store.UpdateShift(ctx, in, 1))
}

func TestSQLite_DeleteAndPublish(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateShift(ctx, testShift("shift-1", "emp-1", "2026-09-07", "09:00", "17:00")))

	require.NoError(t, store.PublishShifts(ctx, []schedule.ShiftID{"shift-1", "shift-ghost"}))
	shifts, err := store.ShiftsByLocation(ctx, testLoc)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.True(t, shifts[0].Published)
	assert.Equal(t, int64(2), shifts[0].Version, "publish bumps the version")

	require.NoError(t, store.DeleteShift(ctx, "shift-1"))
	assert.ErrorIs(t, store.DeleteShift(ctx, "shift-1"), schedule.ErrShiftNotFound)
}

// =============================================================================
// STORE HOURS
// =============================================================================

func TestSQLite_WeeklyScheduleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	days := map[int]schedule.DayHours{
		0: {IsOpen: false},
		3: {IsOpen: true, Ranges: []schedule.TimeRange{tr("08:00", "12:00"), tr("17:00", "23:00")}},
		schedule.HolidayIndex: {IsOpen: true, Ranges: []schedule.TimeRange{tr("11:00", "16:00")}},
	}
	require.NoError(t, store.SaveWeeklySchedule(ctx, testLoc, days))

	ws, err := store.WeeklyScheduleByLocation(ctx, testLoc)
	require.NoError(t, err)

	wednesday := ws.Day(3)
	assert.True(t, wednesday.IsOpen)
	require.Len(t, wednesday.Ranges, 2)
	assert.Equal(t, tr("08:00", "12:00"), wednesday.Ranges[0])

	holiday := ws.Day(schedule.HolidayIndex)
	assert.True(t, holiday.IsOpen)
	require.Len(t, holiday.Ranges, 1)

	assert.False(t, ws.Day(0).IsOpen)
	assert.False(t, ws.Day(5).IsOpen, "unsaved days default closed")
}

func TestSQLite_SaveWeeklySchedule_RejectsOverlappingRanges(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveWeeklySchedule(context.Background(), testLoc, map[int]schedule.DayHours{
		1: {IsOpen: true, Ranges: []schedule.TimeRange{tr("09:00", "13:00"), tr("12:00", "18:00")}},
	})
	assert.Error(t, err)
}

func TestSQLite_ExceptionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveException(ctx, testLoc, schedule.StoreException{
		Date: schedule.MustDate("2026-12-25"), IsOpen: false,
	}))
	require.NoError(t, store.SaveException(ctx, testLoc, schedule.StoreException{
		Date:   schedule.MustDate("2026-12-24"),
		IsOpen: true,
		Ranges: []schedule.TimeRange{tr("10:00", "14:00")},
	}))

	exceptions, err := store.ExceptionsByLocation(ctx, testLoc)
	require.NoError(t, err)
	require.Len(t, exceptions, 2)
	assert.Equal(t, "2026-12-24", exceptions[0].Date.String())
	assert.Len(t, exceptions[0].Ranges, 1)
	assert.False(t, exceptions[1].IsOpen)

	require.NoError(t, store.DeleteException(ctx, testLoc, schedule.MustDate("2026-12-25")))
	exceptions, err = store.ExceptionsByLocation(ctx, testLoc)
	require.NoError(t, err)
	assert.Len(t, exceptions, 1)
}

// =============================================================================
// TEMPLATES, VACATIONS, DIRECTORIES
// =============================================================================

func TestSQLite_TemplateRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := schedule.Template{
		ID:         "tmpl-1",
		LocationID: testLoc,
		Name:       "Weekday Opening",
		Blueprints: []schedule.Blueprint{
			{EmployeeID: "emp-1", DayOffset: 0, Start: "09:00", End: "15:00"},
			{EmployeeID: "emp-2", DayOffset: 2, Start: "12:00", End: "18:00"},
		},
	}
	require.NoError(t, store.SaveTemplate(ctx, in))

	got, err := store.TemplateByID(ctx, "tmpl-1")
	require.NoError(t, err)
	assert.Equal(t, in.Name, got.Name)
	require.Len(t, got.Blueprints, 2)
	assert.Equal(t, in.Blueprints[1], got.Blueprints[1])

	_, err = store.TemplateByID(ctx, "tmpl-missing")
	assert.ErrorIs(t, err, schedule.ErrTemplateNotFound)

	list, err := store.ListTemplates(ctx, testLoc)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSQLite_VacationRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVacation(ctx, testLoc, schedule.VacationRequest{
		ID:         "vac-1",
		EmployeeID: "emp-1",
		StartDate:  schedule.MustDate("2026-07-01"),
		EndDate:    schedule.MustDate("2026-07-05"),
		Status:     schedule.VacationApproved,
	}))

	vacations, err := store.VacationsByLocation(ctx, testLoc)
	require.NoError(t, err)
	require.Len(t, vacations, 1)
	assert.Equal(t, schedule.VacationApproved, vacations[0].Status)
	assert.True(t, vacations[0].Covers(schedule.MustDate("2026-07-03")))
	assert.False(t, vacations[0].Covers(schedule.MustDate("2026-07-06")))
}

func TestSQLite_EmployeeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := schedule.Employee{
		ID:            "emp-1",
		LocationID:    testLoc,
		Name:          "Ari Bennett",
		WeeklyHourCap: 40,
		Unavailable: []schedule.UnavailableWindow{
			{Weekday: time.Tuesday, Start: schedule.MustClock("18:00"), End: schedule.MustClock("23:00")},
		},
		Active: true,
	}
	require.NoError(t, store.SaveEmployee(ctx, in))

	employees, err := store.ListEmployees(ctx, testLoc)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, in.Name, employees[0].Name)
	require.Len(t, employees[0].Unavailable, 1)
	assert.Equal(t, in.Unavailable[0], employees[0].Unavailable[0])

	got, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, in.WeeklyHourCap, got.WeeklyHourCap)

	missing, err := store.GetEmployee(ctx, "emp-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// SUBSCRIPTION AND RESET
// =============================================================================

func TestSQLite_SubscribeFiresOnMutation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var notified int
	store.Subscribe(func() { notified++ })

	require.NoError(t, store.CreateShift(ctx, testShift("shift-1", "emp-1", "2026-09-07", "09:00", "17:00")))
	require.NoError(t, store.DeleteShift(ctx, "shift-1"))
	assert.Equal(t, 2, notified)
}

func TestSQLite_ResetWipesEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocation(ctx, sqlite.Location{ID: testLoc, Name: "Downtown"}))
	require.NoError(t, store.CreateShift(ctx, testShift("shift-1", "emp-1", "2026-09-07", "09:00", "17:00")))
	require.NoError(t, store.Reset(ctx))

	shifts, err := store.ShiftsByLocation(ctx, testLoc)
	require.NoError(t, err)
	assert.Empty(t, shifts)
	locations, err := store.ListLocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, locations)
}
