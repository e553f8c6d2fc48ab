/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates a location, store
	hours, employees, vacations, and templates that demonstrate specific
	engine behaviors.

AVAILABLE SCENARIOS:

	downtown-week:    Regular Mon-Sat store with a three-shift template
	split-day:        Store that closes over lunch (two ranges per day)
	holiday-closure:  Exceptions - closed holiday plus a reduced-hours date

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create the location and its weekly hours
 3. Create employees
 4. Add exceptions, vacations, templates as the scenario needs

USAGE VIA API:

	POST /api/scenarios/load
	{"id": "downtown-week"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Other endpoint handlers
  - store/sqlite/sqlite.go: Seeding writes
*/
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "downtown-week",
		Name:        "Downtown Week",
		Description: "Mon-Sat store, three employees, one approved vacation, a weekday opening template",
	},
	{
		ID:          "split-day",
		Name:        "Split Day",
		Description: "Store closed over lunch; shifts must fit one of two ranges",
	},
	{
		ID:          "holiday-closure",
		Name:        "Holiday Closure",
		Description: "Closed-holiday and reduced-hours exceptions overriding the weekly pattern",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario resets the database and loads the named scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.dropEngines()

	var err error
	switch req.ID {
	case "downtown-week":
		err = loadDowntownWeek(ctx, h.Store)
	case "split-day":
		err = loadSplitDay(ctx, h.Store)
	case "holiday-closure":
		err = loadHolidayClosure(ctx, h.Store)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ID})
}

// ResetDatabase wipes all data (dev only).
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.dropEngines()
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func mustRange(open, close string) schedule.TimeRange {
	return schedule.TimeRange{Open: schedule.MustClock(open), Close: schedule.MustClock(close)}
}

func weekdays(days map[int]schedule.DayHours, open, close string, indexes ...int) {
	for _, idx := range indexes {
		days[idx] = schedule.DayHours{IsOpen: true, Ranges: []schedule.TimeRange{mustRange(open, close)}}
	}
}

// loadDowntownWeek: the standard demo. Mon-Fri 09:00-21:00, Sat 10:00-18:00,
// closed Sunday. Dana is on approved vacation the first week of September
// 2026, so applying the opening template over that week trips exactly one
// rejection.
func loadDowntownWeek(ctx context.Context, s *sqlite.Store) error {
	loc := schedule.LocationID("downtown")
	if err := s.SaveLocation(ctx, sqlite.Location{ID: loc, Name: "Downtown Flagship"}); err != nil {
		return err
	}

	days := map[int]schedule.DayHours{}
	weekdays(days, "09:00", "21:00", 1, 2, 3, 4, 5)
	weekdays(days, "10:00", "18:00", 6)
	days[0] = schedule.DayHours{IsOpen: false}
	if err := s.SaveWeeklySchedule(ctx, loc, days); err != nil {
		return err
	}

	employees := []schedule.Employee{
		{ID: "emp-ari", LocationID: loc, Name: "Ari Bennett", WeeklyHourCap: 40, Active: true},
		{ID: "emp-dana", LocationID: loc, Name: "Dana Okafor", WeeklyHourCap: 40, Active: true},
		{ID: "emp-sam", LocationID: loc, Name: "Sam Ruiz", WeeklyHourCap: 24, Active: true},
	}
	for _, emp := range employees {
		if err := s.SaveEmployee(ctx, emp); err != nil {
			return err
		}
	}

	if err := s.SaveVacation(ctx, loc, schedule.VacationRequest{
		ID:         "vac-dana-sept",
		EmployeeID: "emp-dana",
		StartDate:  schedule.MustDate("2026-08-31"),
		EndDate:    schedule.MustDate("2026-09-04"),
		Status:     schedule.VacationApproved,
	}); err != nil {
		return err
	}

	return s.SaveTemplate(ctx, schedule.Template{
		ID:         "tmpl-weekday-opening",
		LocationID: loc,
		Name:       "Weekday Opening",
		Blueprints: []schedule.Blueprint{
			{EmployeeID: "emp-ari", DayOffset: 0, Start: "09:00", End: "15:00"},
			{EmployeeID: "emp-dana", DayOffset: 0, Start: "12:00", End: "18:00"},
			{EmployeeID: "emp-sam", DayOffset: 1, Start: "15:00", End: "21:00"},
		},
	})
}

// loadSplitDay: every open day has a morning range and an evening range.
// A shift spanning 12:00 is rejected even though both endpoints fall
// inside open time.
func loadSplitDay(ctx context.Context, s *sqlite.Store) error {
	loc := schedule.LocationID("bistro")
	if err := s.SaveLocation(ctx, sqlite.Location{ID: loc, Name: "Bistro on 5th"}); err != nil {
		return err
	}

	split := schedule.DayHours{IsOpen: true, Ranges: []schedule.TimeRange{
		mustRange("08:00", "12:00"),
		mustRange("17:00", "23:00"),
	}}
	days := map[int]schedule.DayHours{0: {IsOpen: false}}
	for idx := 1; idx <= 6; idx++ {
		days[idx] = split
	}
	if err := s.SaveWeeklySchedule(ctx, loc, days); err != nil {
		return err
	}

	for _, emp := range []schedule.Employee{
		{ID: "emp-kai", LocationID: loc, Name: "Kai Moreno", WeeklyHourCap: 40, Active: true},
		{ID: "emp-lena", LocationID: loc, Name: "Lena Voss", WeeklyHourCap: 30, Active: true},
	} {
		if err := s.SaveEmployee(ctx, emp); err != nil {
			return err
		}
	}
	return nil
}

// loadHolidayClosure: normal week plus two exceptions - fully closed on
// 2026-12-25 and reduced hours on 2026-12-24. The holiday default entry
// (index 7) covers open exceptions that carry no explicit ranges.
func loadHolidayClosure(ctx context.Context, s *sqlite.Store) error {
	loc := schedule.LocationID("mall")
	if err := s.SaveLocation(ctx, sqlite.Location{ID: loc, Name: "Mall Kiosk"}); err != nil {
		return err
	}

	days := map[int]schedule.DayHours{}
	weekdays(days, "10:00", "20:00", 0, 1, 2, 3, 4, 5, 6)
	days[schedule.HolidayIndex] = schedule.DayHours{
		IsOpen: true,
		Ranges: []schedule.TimeRange{mustRange("11:00", "16:00")},
	}
	if err := s.SaveWeeklySchedule(ctx, loc, days); err != nil {
		return err
	}

	if err := s.SaveException(ctx, loc, schedule.StoreException{
		Date: schedule.MustDate("2026-12-25"), IsOpen: false,
	}); err != nil {
		return err
	}
	if err := s.SaveException(ctx, loc, schedule.StoreException{
		Date:   schedule.MustDate("2026-12-24"),
		IsOpen: true,
		Ranges: []schedule.TimeRange{mustRange("10:00", "14:00")},
	}); err != nil {
		return err
	}
	// 2027-01-01 is open but carries no ranges: holiday default applies.
	if err := s.SaveException(ctx, loc, schedule.StoreException{
		Date: schedule.MustDate("2027-01-01"), IsOpen: true,
	}); err != nil {
		return err
	}

	return s.SaveEmployee(ctx, schedule.Employee{
		ID: "emp-noor", LocationID: loc, Name: "Noor Haddad", WeeklyHourCap: 40, Active: true,
	})
}
