/*
handlers.go - HTTP API handlers for the shift scheduling engine

PURPOSE:
  Exposes the scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Locations:
    GET    /api/locations                          List locations
    POST   /api/locations                          Create location

  Shifts (location-scoped; the engine never crosses locations):
    GET    /api/locations/{id}/shifts              List shifts
    POST   /api/locations/{id}/shifts              Validate and create
    PATCH  /api/locations/{id}/shifts/{shiftID}    Validate and update
    DELETE /api/locations/{id}/shifts/{shiftID}    Delete
    POST   /api/locations/{id}/shifts/publish      Publish (no re-validation)
    POST   /api/locations/{id}/duplicate-day       Copy one day forward a week

  Templates:
    GET    /api/locations/{id}/templates           List templates
    POST   /api/locations/{id}/templates           Create template
    POST   /api/locations/{id}/templates/{templateID}/apply

  Store hours:
    GET    /api/locations/{id}/hours               Resolved weekly entries
    PUT    /api/locations/{id}/hours               Replace weekly entries
    GET    /api/locations/{id}/exceptions          List date overrides
    POST   /api/locations/{id}/exceptions          Create/replace override
    DELETE /api/locations/{id}/exceptions/{date}   Remove override
    GET    /api/locations/{id}/open?date=...       Open state + ranges

  Directories and vacations:
    GET/POST /api/locations/{id}/employees
    GET/POST /api/locations/{id}/vacations

  Scenarios (dev):
    GET  /api/scenarios   POST /api/scenarios/load   POST /api/scenarios/reset

ERROR HANDLING:
  Business-rule rejections come back as 422 with the full ValidationResponse
  list; the caller renders every entry inline. Shape errors are 400,
  unknown IDs 404, store failures 500.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scenarios.go: Demo scenario loaders
*/
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. Engines are created
// lazily, one per location, and shared across requests.
type Handler struct {
	Store        *sqlite.Store
	FailMode     schedule.FailMode
	WriteTimeout time.Duration

	validate *validator.Validate

	mu      sync.Mutex
	engines map[schedule.LocationID]*schedule.Engine

	currentScenario string
}

// NewHandler creates a new handler with the given store and engine policy.
func NewHandler(store *sqlite.Store, failMode schedule.FailMode, writeTimeout time.Duration) *Handler {
	return &Handler{
		Store:        store,
		FailMode:     failMode,
		WriteTimeout: writeTimeout,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		engines:      make(map[schedule.LocationID]*schedule.Engine),
	}
}

// EngineFor returns the engine serving a location, creating it on first use.
// A newly created engine gets an initial snapshot refresh; after that the
// background refresher keeps it warm.
func (h *Handler) EngineFor(ctx context.Context, locationID schedule.LocationID) *schedule.Engine {
	h.mu.Lock()
	eng, ok := h.engines[locationID]
	if !ok {
		eng = schedule.NewEngine(h.Store, locationID, schedule.Options{
			VacationFailMode: h.FailMode,
			WriteTimeout:     h.WriteTimeout,
		})
		h.engines[locationID] = eng
	}
	h.mu.Unlock()

	if !ok {
		if err := eng.Refresh(ctx); err != nil {
			log.Printf("[API] Initial snapshot refresh for %s failed: %v", locationID, err)
		}
	}
	return eng
}

// Engines returns the engines created so far (for the snapshot refresher).
func (h *Handler) Engines() []*schedule.Engine {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*schedule.Engine, 0, len(h.engines))
	for _, eng := range h.engines {
		out = append(out, eng)
	}
	return out
}

func (h *Handler) dropEngines() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engines = make(map[schedule.LocationID]*schedule.Engine)
}

// decodeValid decodes the body into v and runs struct validation.
func (h *Handler) decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

func locationParam(r *http.Request) schedule.LocationID {
	return schedule.LocationID(chi.URLParam(r, "id"))
}

// =============================================================================
// LOCATION HANDLERS
// =============================================================================

// ListLocations returns all locations.
func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.Store.ListLocations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list locations", err)
		return
	}
	dtos := make([]LocationDTO, len(locations))
	for i, loc := range locations {
		dtos[i] = LocationDTO{ID: string(loc.ID), Name: loc.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLocation creates a new location.
func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	loc := sqlite.Location{ID: schedule.LocationID(req.ID), Name: req.Name}
	if err := h.Store.SaveLocation(r.Context(), loc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create location", err)
		return
	}
	writeJSON(w, http.StatusCreated, LocationDTO{ID: req.ID, Name: req.Name})
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

// ListShifts returns all shifts for a location.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Store.ShiftsByLocation(r.Context(), locationParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}
	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateShift validates a proposed shift and persists it when accepted.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req CreateShiftRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	eng := h.EngineFor(r.Context(), locationParam(r))
	errs, opErr := eng.ValidateAndCreateShift(r.Context(), schedule.Candidate{
		EmployeeID: schedule.EmployeeID(req.EmployeeID),
		Date:       date,
		Start:      req.Start,
		End:        req.End,
	})
	if opErr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create shift", opErr)
		return
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, toValidationResponse(errs))
		return
	}
	writeJSON(w, http.StatusCreated, toValidationResponse(nil))
}

// UpdateShift validates a partial edit and persists it when accepted.
// Published is cleared whether or not the time fields changed.
func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req UpdateShiftRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	patch := schedule.ShiftPatch{Start: req.Start, End: req.End}
	if req.EmployeeID != nil {
		id := schedule.EmployeeID(*req.EmployeeID)
		patch.EmployeeID = &id
	}
	if req.Date != nil {
		date, err := schedule.ParseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		patch.Date = &date
	}

	eng := h.EngineFor(r.Context(), locationParam(r))
	shiftID := schedule.ShiftID(chi.URLParam(r, "shiftID"))
	errs, opErr := eng.ValidateAndUpdateShift(r.Context(), shiftID, patch)
	if opErr != nil {
		if schedule.IsNotFound(opErr) {
			writeError(w, http.StatusNotFound, "Shift not found", opErr)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update shift", opErr)
		return
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, toValidationResponse(errs))
		return
	}
	writeJSON(w, http.StatusOK, toValidationResponse(nil))
}

// DeleteShift removes a shift. Terminal from any state.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	eng := h.EngineFor(r.Context(), locationParam(r))
	shiftID := schedule.ShiftID(chi.URLParam(r, "shiftID"))
	if err := eng.DeleteShift(r.Context(), shiftID); err != nil {
		if schedule.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Shift not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete shift", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishShifts marks shifts published. Bypasses re-validation by design.
func (h *Handler) PublishShifts(w http.ResponseWriter, r *http.Request) {
	var req PublishShiftsRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ids := make([]schedule.ShiftID, len(req.IDs))
	for i, id := range req.IDs {
		ids[i] = schedule.ShiftID(id)
	}
	eng := h.EngineFor(r.Context(), locationParam(r))
	if err := eng.PublishShifts(r.Context(), ids); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to publish shifts", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateDay copies every shift on the source date seven days forward.
func (h *Handler) DuplicateDay(w http.ResponseWriter, r *http.Request) {
	var req DuplicateDayRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	sourceDate, err := schedule.ParseDate(req.SourceDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid source_date format (use YYYY-MM-DD)", err)
		return
	}

	eng := h.EngineFor(r.Context(), locationParam(r))
	errs, opErr := eng.DuplicateDay(r.Context(), sourceDate)
	if opErr != nil {
		writeError(w, http.StatusInternalServerError, "Failed to duplicate day", opErr)
		return
	}
	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, toValidationResponse(errs))
}

// =============================================================================
// TEMPLATE HANDLERS
// =============================================================================

// ListTemplates returns all templates for a location.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Store.ListTemplates(r.Context(), locationParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates", err)
		return
	}
	dtos := make([]TemplateDTO, len(templates))
	for i, t := range templates {
		dtos[i] = toTemplateDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func toTemplateDTO(t schedule.Template) TemplateDTO {
	dto := TemplateDTO{ID: string(t.ID), Name: t.Name}
	for _, bp := range t.Blueprints {
		dto.Blueprints = append(dto.Blueprints, BlueprintDTO{
			EmployeeID: string(bp.EmployeeID),
			DayOffset:  bp.DayOffset,
			Start:      bp.Start,
			End:        bp.End,
		})
	}
	return dto
}

// CreateTemplate stores a named blueprint list.
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id := req.ID
	if id == "" {
		id = "tmpl-" + req.Name
	}
	t := schedule.Template{
		ID:         schedule.TemplateID(id),
		LocationID: locationParam(r),
		Name:       req.Name,
	}
	for _, bp := range req.Blueprints {
		t.Blueprints = append(t.Blueprints, schedule.Blueprint{
			EmployeeID: schedule.EmployeeID(bp.EmployeeID),
			DayOffset:  bp.DayOffset,
			Start:      bp.Start,
			End:        bp.End,
		})
	}
	if err := h.Store.SaveTemplate(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save template", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateDTO(t))
}

// ApplyTemplate instantiates a template against an anchor date. Partial
// failures come back in the validation list; surviving blueprints persist.
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req ApplyTemplateRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	anchor, err := schedule.ParseDate(req.AnchorDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid anchor_date format (use YYYY-MM-DD)", err)
		return
	}

	eng := h.EngineFor(r.Context(), locationParam(r))
	templateID := schedule.TemplateID(chi.URLParam(r, "templateID"))
	errs, opErr := eng.ApplyTemplate(r.Context(), templateID, anchor)
	if opErr != nil {
		if schedule.IsNotFound(opErr) {
			writeError(w, http.StatusNotFound, "Template not found", opErr)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to apply template", opErr)
		return
	}
	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, toValidationResponse(errs))
}

// =============================================================================
// STORE HOURS HANDLERS
// =============================================================================

// GetHours returns the resolved weekly entries for a location.
func (h *Handler) GetHours(w http.ResponseWriter, r *http.Request) {
	weekly, err := h.Store.WeeklyScheduleByLocation(r.Context(), locationParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load store hours", err)
		return
	}
	dtos := make([]DayHoursDTO, 0, schedule.HolidayIndex+1)
	for idx := 0; idx <= schedule.HolidayIndex; idx++ {
		day := weekly.Day(idx)
		dtos = append(dtos, DayHoursDTO{DayIndex: idx, IsOpen: day.IsOpen, Ranges: toRangeDTOs(day.Ranges)})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveHours replaces the weekly entries. Overlapping ranges within a day are
// rejected up front.
func (h *Handler) SaveHours(w http.ResponseWriter, r *http.Request) {
	var req SaveHoursRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	days := make(map[int]schedule.DayHours, len(req.Days))
	for _, d := range req.Days {
		ranges, err := parseRanges(d.Ranges)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid time range", err)
			return
		}
		days[d.DayIndex] = schedule.DayHours{IsOpen: d.IsOpen, Ranges: ranges}
	}
	if err := h.Store.SaveWeeklySchedule(r.Context(), locationParam(r), days); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to save store hours", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListExceptions returns all date-keyed overrides for a location.
func (h *Handler) ListExceptions(w http.ResponseWriter, r *http.Request) {
	exceptions, err := h.Store.ExceptionsByLocation(r.Context(), locationParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list exceptions", err)
		return
	}
	dtos := make([]ExceptionDTO, len(exceptions))
	for i, ex := range exceptions {
		dtos[i] = ExceptionDTO{Date: ex.Date.String(), IsOpen: ex.IsOpen, Ranges: toRangeDTOs(ex.Ranges)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveException creates or replaces a date-keyed override.
func (h *Handler) SaveException(w http.ResponseWriter, r *http.Request) {
	var req ExceptionRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := schedule.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	ranges, err := parseRanges(req.Ranges)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time range", err)
		return
	}
	ex := schedule.StoreException{Date: date, IsOpen: req.IsOpen, Ranges: ranges}
	if err := h.Store.SaveException(r.Context(), locationParam(r), ex); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save exception", err)
		return
	}
	writeJSON(w, http.StatusCreated, ExceptionDTO{Date: req.Date, IsOpen: req.IsOpen, Ranges: req.Ranges})
}

// DeleteException removes a date-keyed override.
func (h *Handler) DeleteException(w http.ResponseWriter, r *http.Request) {
	date, err := schedule.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if err := h.Store.DeleteException(r.Context(), locationParam(r), date); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete exception", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetOpen reports the open state and permitted ranges for a date.
func (h *Handler) GetOpen(w http.ResponseWriter, r *http.Request) {
	date, err := schedule.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or missing date query parameter", err)
		return
	}

	eng := h.EngineFor(r.Context(), locationParam(r))
	open, err := eng.IsDateOpen(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve store hours", err)
		return
	}
	ranges, err := eng.PermittedRanges(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve store hours", err)
		return
	}
	writeJSON(w, http.StatusOK, OpenDTO{Date: date.String(), Open: open, Ranges: toRangeDTOs(ranges)})
}

func parseRanges(dtos []RangeDTO) ([]schedule.TimeRange, error) {
	var out []schedule.TimeRange
	for _, r := range dtos {
		open, err := schedule.ParseClock(r.Open)
		if err != nil {
			return nil, err
		}
		end, err := schedule.ParseClock(r.Close)
		if err != nil {
			return nil, err
		}
		out = append(out, schedule.TimeRange{Open: open, Close: end})
	}
	return out, nil
}

// =============================================================================
// EMPLOYEE AND VACATION HANDLERS
// =============================================================================

// ListEmployees returns a location's employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context(), locationParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func toEmployeeDTO(emp schedule.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:             string(emp.ID),
		Name:           emp.Name,
		WeeklyHourCap:  emp.WeeklyHourCap,
		MonthlyHourCap: emp.MonthlyHourCap,
		Active:         emp.Active,
	}
	for _, win := range emp.Unavailable {
		dto.Unavailable = append(dto.Unavailable, WindowDTO{
			Weekday: int(win.Weekday), Start: win.Start.String(), End: win.End.String(),
		})
	}
	return dto
}

// CreateEmployee creates or replaces a directory entry.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp := schedule.Employee{
		ID:             schedule.EmployeeID(req.ID),
		LocationID:     locationParam(r),
		Name:           req.Name,
		WeeklyHourCap:  req.WeeklyHourCap,
		MonthlyHourCap: req.MonthlyHourCap,
		Active:         true,
	}
	if req.Active != nil {
		emp.Active = *req.Active
	}
	for _, win := range req.Unavailable {
		start, err := schedule.ParseClock(win.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid unavailable window", err)
			return
		}
		end, err := schedule.ParseClock(win.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid unavailable window", err)
			return
		}
		emp.Unavailable = append(emp.Unavailable, schedule.UnavailableWindow{
			Weekday: time.Weekday(win.Weekday), Start: start, End: end,
		})
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// ListVacations returns a location's vacation requests.
func (h *Handler) ListVacations(w http.ResponseWriter, r *http.Request) {
	vacations, err := h.Store.VacationsByLocation(r.Context(), locationParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list vacations", err)
		return
	}
	dtos := make([]VacationDTO, len(vacations))
	for i, v := range vacations {
		dtos[i] = VacationDTO{
			ID:         v.ID,
			EmployeeID: string(v.EmployeeID),
			StartDate:  v.StartDate.String(),
			EndDate:    v.EndDate.String(),
			Status:     string(v.Status),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateVacation writes a vacation request row. The engine only reads these;
// this endpoint exists for the vacation workflow and for seeding.
func (h *Handler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	var req CreateVacationRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := schedule.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date must not precede start_date", nil)
		return
	}

	v := schedule.VacationRequest{
		ID:         req.ID,
		EmployeeID: schedule.EmployeeID(req.EmployeeID),
		StartDate:  start,
		EndDate:    end,
		Status:     schedule.VacationStatus(req.Status),
	}
	if err := h.Store.SaveVacation(r.Context(), locationParam(r), v); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save vacation", err)
		return
	}
	writeJSON(w, http.StatusCreated, VacationDTO{
		ID: req.ID, EmployeeID: req.EmployeeID,
		StartDate: req.StartDate, EndDate: req.EndDate, Status: req.Status,
	})
}

// =============================================================================
// JSON HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
