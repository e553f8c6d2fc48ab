package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-engine/api"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testAPI struct {
	router *chi.Mux
	store  *sqlite.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := api.NewHandler(store, schedule.FailOpen, 2*time.Second)
	return &testAPI{router: api.NewRouter(h), store: store}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

// seedLocation creates a location open every day 09:00-20:00 with one employee.
func (a *testAPI) seedLocation(t *testing.T) {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/locations", api.CreateLocationRequest{ID: "loc-1", Name: "Downtown"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	days := make([]api.DayHoursDTO, 0, 7)
	for idx := 0; idx <= 6; idx++ {
		days = append(days, api.DayHoursDTO{
			DayIndex: idx,
			IsOpen:   true,
			Ranges:   []api.RangeDTO{{Open: "09:00", Close: "20:00"}},
		})
	}
	rec = a.do(t, http.MethodPut, "/api/locations/loc-1/hours", api.SaveHoursRequest{Days: days})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/locations/loc-1/employees", api.CreateEmployeeRequest{
		ID: "emp-1", Name: "Ari Bennett", WeeklyHourCap: 40,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func createShift(t *testing.T, a *testAPI, emp, date, start, end string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, http.MethodPost, "/api/locations/loc-1/shifts", api.CreateShiftRequest{
		EmployeeID: emp, Date: date, Start: start, End: end,
	})
}

func listShifts(t *testing.T, a *testAPI) []api.ShiftDTO {
	t.Helper()
	rec := a.do(t, http.MethodGet, "/api/locations/loc-1/shifts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decode[[]api.ShiftDTO](t, rec)
}

// =============================================================================
// SHIFT ENDPOINTS
// =============================================================================

func TestAPI_CreateShift_AcceptedAndListed(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	rec := createShift(t, a, "emp-1", "2026-09-07", "09:00", "17:30")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[api.ValidationResponse](t, rec)
	assert.Empty(t, resp.Errors)

	shifts := listShifts(t, a)
	require.Len(t, shifts, 1)
	assert.Equal(t, "emp-1", shifts[0].EmployeeID)
	assert.Equal(t, "8.5", shifts[0].Hours)
	assert.False(t, shifts[0].Published)
}

func TestAPI_CreateShift_RejectedOutsideHours(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	rec := createShift(t, a, "emp-1", "2026-09-07", "08:00", "12:00")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[api.ValidationResponse](t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "outside_store_hours", resp.Errors[0].Code)

	assert.Empty(t, listShifts(t, a), "rejection must persist nothing")
}

func TestAPI_CreateShift_RejectedDuringVacation(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	rec := a.do(t, http.MethodPost, "/api/locations/loc-1/vacations", api.CreateVacationRequest{
		ID: "vac-1", EmployeeID: "emp-1",
		StartDate: "2026-09-07", EndDate: "2026-09-11", Status: "approved",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = createShift(t, a, "emp-1", "2026-09-09", "09:00", "17:00")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[api.ValidationResponse](t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "vacation_conflict", resp.Errors[0].Code)
}

func TestAPI_CreateShift_BadRequestShapes(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	// Missing required fields is a 400, not a validation list.
	rec := a.do(t, http.MethodPost, "/api/locations/loc-1/shifts", map[string]string{"employee_id": "emp-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = createShift(t, a, "emp-1", "next monday", "09:00", "17:00")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_UpdateShift_ClearsPublished(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	require.Equal(t, http.StatusCreated, createShift(t, a, "emp-1", "2026-09-07", "09:00", "17:00").Code)
	id := listShifts(t, a)[0].ID

	rec := a.do(t, http.MethodPost, "/api/locations/loc-1/shifts/publish", api.PublishShiftsRequest{IDs: []string{id}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, listShifts(t, a)[0].Published)

	newEnd := "18:00"
	rec = a.do(t, http.MethodPatch, "/api/locations/loc-1/shifts/"+id, api.UpdateShiftRequest{End: &newEnd})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := listShifts(t, a)[0]
	assert.Equal(t, "18:00", updated.End)
	assert.False(t, updated.Published, "editing clears published")
	assert.Greater(t, updated.Version, int64(1))
}

func TestAPI_UpdateShift_UnknownID(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	newEnd := "18:00"
	rec := a.do(t, http.MethodPatch, "/api/locations/loc-1/shifts/shift-ghost", api.UpdateShiftRequest{End: &newEnd})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_DeleteShift(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	require.Equal(t, http.StatusCreated, createShift(t, a, "emp-1", "2026-09-07", "09:00", "17:00").Code)
	id := listShifts(t, a)[0].ID

	rec := a.do(t, http.MethodDelete, "/api/locations/loc-1/shifts/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, listShifts(t, a))

	rec = a.do(t, http.MethodDelete, "/api/locations/loc-1/shifts/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// TEMPLATES AND DUPLICATION
// =============================================================================

func TestAPI_ApplyTemplate_PartialFailure(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	rec := a.do(t, http.MethodPost, "/api/locations/loc-1/employees", api.CreateEmployeeRequest{
		ID: "emp-2", Name: "Dana Okafor",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/locations/loc-1/templates", api.CreateTemplateRequest{
		ID: "tmpl-1", Name: "Opening",
		Blueprints: []api.BlueprintDTO{
			{EmployeeID: "emp-1", DayOffset: 0, Start: "09:00", End: "15:00"},
			{EmployeeID: "emp-2", DayOffset: 0, Start: "12:00", End: "18:00"},
			{EmployeeID: "emp-2", DayOffset: 2, Start: "12:00", End: "18:00"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// emp-2 already works the anchor Monday afternoon.
	require.Equal(t, http.StatusCreated, createShift(t, a, "emp-2", "2026-09-07", "14:00", "20:00").Code)

	rec = a.do(t, http.MethodPost, "/api/locations/loc-1/templates/tmpl-1/apply",
		api.ApplyTemplateRequest{AnchorDate: "2026-09-07"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	resp := decode[api.ValidationResponse](t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "shift_overlap", resp.Errors[0].Code)
	assert.Equal(t, 1, resp.Errors[0].Item)

	assert.Len(t, listShifts(t, a), 3, "seeded shift plus the two surviving blueprints")
}

func TestAPI_DuplicateDay(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	require.Equal(t, http.StatusCreated, createShift(t, a, "emp-1", "2026-09-02", "09:00", "15:00").Code)

	rec := a.do(t, http.MethodPost, "/api/locations/loc-1/duplicate-day",
		api.DuplicateDayRequest{SourceDate: "2026-09-02"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[api.ValidationResponse](t, rec)
	assert.Empty(t, resp.Errors)

	dates := map[string]int{}
	for _, s := range listShifts(t, a) {
		dates[s.Date]++
	}
	assert.Equal(t, map[string]int{"2026-09-02": 1, "2026-09-09": 1}, dates)
}

// =============================================================================
// HOURS, EXCEPTIONS, OPEN QUERY
// =============================================================================

func TestAPI_OpenQueryHonorsExceptions(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	rec := a.do(t, http.MethodPost, "/api/locations/loc-1/exceptions", api.ExceptionRequest{
		Date: "2026-12-25", IsOpen: false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/locations/loc-1/open?date=2026-12-25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	open := decode[api.OpenDTO](t, rec)
	assert.False(t, open.Open)
	assert.Empty(t, open.Ranges)

	rec = a.do(t, http.MethodGet, "/api/locations/loc-1/open?date=2026-12-28", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	open = decode[api.OpenDTO](t, rec)
	assert.True(t, open.Open)
	require.Len(t, open.Ranges, 1)
	assert.Equal(t, api.RangeDTO{Open: "09:00", Close: "20:00"}, open.Ranges[0])
}

func TestAPI_SaveHours_RejectsOverlappingRanges(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	rec := a.do(t, http.MethodPut, "/api/locations/loc-1/hours", api.SaveHoursRequest{
		Days: []api.DayHoursDTO{{
			DayIndex: 1, IsOpen: true,
			Ranges: []api.RangeDTO{{Open: "09:00", Close: "13:00"}, {Open: "12:00", Close: "18:00"}},
		}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestAPI_LoadScenario(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]api.ScenarioDTO](t, rec)
	require.NotEmpty(t, list)

	rec = a.do(t, http.MethodPost, "/api/scenarios/load", api.LoadScenarioRequest{ID: "downtown-week"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/api/locations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	locations := decode[[]api.LocationDTO](t, rec)
	require.Len(t, locations, 1)
	assert.Equal(t, "downtown", locations[0].ID)

	// Dana's approved vacation blocks a shift that week.
	rec = a.do(t, http.MethodPost, "/api/locations/downtown/shifts", api.CreateShiftRequest{
		EmployeeID: "emp-dana", Date: "2026-09-02", Start: "12:00", End: "18:00",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	resp := decode[api.ValidationResponse](t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "vacation_conflict", resp.Errors[0].Code)

	rec = a.do(t, http.MethodPost, "/api/scenarios/load", api.LoadScenarioRequest{ID: "no-such"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ResetDatabase(t *testing.T) {
	a := newTestAPI(t)
	a.seedLocation(t)

	rec := a.do(t, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/locations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]api.LocationDTO](t, rec))
}
