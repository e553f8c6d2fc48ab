/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  h.validate.Struct(req) before touching domain logic. Semantic checks
  (times parse, end after start, store hours...) belong to the engine, not
  to these tags - the tags only guard shape.

SEE ALSO:
  - handlers.go: Uses these types
  - schedule/errors.go: ValidationError, rendered as ValidationErrorDTO
*/
package api

import (
	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftDTO represents a shift in API responses.
type ShiftDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LocationID string `json:"location_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Hours      string `json:"hours"`
	Published  bool   `json:"published"`
	Version    int64  `json:"version"`
}

func toShiftDTO(s schedule.Shift) ShiftDTO {
	return ShiftDTO{
		ID:         string(s.ID),
		EmployeeID: string(s.EmployeeID),
		LocationID: string(s.LocationID),
		Date:       s.Date.String(),
		Start:      s.Start.String(),
		End:        s.End.String(),
		Hours:      s.Hours.String(),
		Published:  s.Published,
		Version:    s.Version,
	}
}

// CreateShiftRequest proposes a new shift.
type CreateShiftRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
	Start      string `json:"start" validate:"required"`
	End        string `json:"end" validate:"required"`
}

// UpdateShiftRequest is a partial edit; nil fields are left unchanged.
type UpdateShiftRequest struct {
	EmployeeID *string `json:"employee_id"`
	Date       *string `json:"date"`
	Start      *string `json:"start"`
	End        *string `json:"end"`
}

// PublishShiftsRequest names the shifts to publish.
type PublishShiftsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// ValidationErrorDTO mirrors schedule.ValidationError. Item is -1 outside
// batch operations.
type ValidationErrorDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Item    int    `json:"item"`
}

// ValidationResponse wraps the engine's error list. An empty Errors slice
// means the operation was accepted and persisted.
type ValidationResponse struct {
	Errors []ValidationErrorDTO `json:"errors"`
}

func toValidationResponse(errs []schedule.ValidationError) ValidationResponse {
	out := ValidationResponse{Errors: make([]ValidationErrorDTO, len(errs))}
	for i, e := range errs {
		out.Errors[i] = ValidationErrorDTO{Code: string(e.Code), Message: e.Message, Item: e.Item}
	}
	return out
}

// =============================================================================
// STORE HOURS
// =============================================================================

type RangeDTO struct {
	Open  string `json:"open" validate:"required"`
	Close string `json:"close" validate:"required"`
}

type DayHoursDTO struct {
	DayIndex int        `json:"day_index" validate:"min=0,max=7"`
	IsOpen   bool       `json:"is_open"`
	Ranges   []RangeDTO `json:"ranges" validate:"dive"`
}

// SaveHoursRequest replaces a location's weekly schedule. Day indexes are
// 0 (Sunday) through 6 (Saturday) plus 7 for the holiday default.
type SaveHoursRequest struct {
	Days []DayHoursDTO `json:"days" validate:"required,dive"`
}

// ExceptionRequest creates or replaces a date-keyed override.
type ExceptionRequest struct {
	Date   string     `json:"date" validate:"required"`
	IsOpen bool       `json:"is_open"`
	Ranges []RangeDTO `json:"ranges" validate:"dive"`
}

type ExceptionDTO struct {
	Date   string     `json:"date"`
	IsOpen bool       `json:"is_open"`
	Ranges []RangeDTO `json:"ranges"`
}

// OpenDTO answers "is the store open on this date, and when".
type OpenDTO struct {
	Date   string     `json:"date"`
	Open   bool       `json:"open"`
	Ranges []RangeDTO `json:"ranges"`
}

func toRangeDTOs(ranges []schedule.TimeRange) []RangeDTO {
	out := make([]RangeDTO, len(ranges))
	for i, r := range ranges {
		out[i] = RangeDTO{Open: r.Open.String(), Close: r.Close.String()}
	}
	return out
}

// =============================================================================
// TEMPLATES
// =============================================================================

type BlueprintDTO struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	DayOffset  int    `json:"day_offset" validate:"min=0,max=6"`
	Start      string `json:"start" validate:"required"`
	End        string `json:"end" validate:"required"`
}

type TemplateDTO struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Blueprints []BlueprintDTO `json:"blueprints"`
}

type CreateTemplateRequest struct {
	ID         string         `json:"id"`
	Name       string         `json:"name" validate:"required"`
	Blueprints []BlueprintDTO `json:"blueprints" validate:"required,min=1,dive"`
}

type ApplyTemplateRequest struct {
	AnchorDate string `json:"anchor_date" validate:"required"`
}

type DuplicateDayRequest struct {
	SourceDate string `json:"source_date" validate:"required"`
}

// =============================================================================
// DIRECTORIES AND VACATIONS
// =============================================================================

type LocationDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateLocationRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type WindowDTO struct {
	Weekday int    `json:"weekday" validate:"min=0,max=6"`
	Start   string `json:"start" validate:"required"`
	End     string `json:"end" validate:"required"`
}

type EmployeeDTO struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	WeeklyHourCap  int         `json:"weekly_hour_cap"`
	MonthlyHourCap int         `json:"monthly_hour_cap"`
	Unavailable    []WindowDTO `json:"unavailable"`
	Active         bool        `json:"active"`
}

type CreateEmployeeRequest struct {
	ID             string      `json:"id" validate:"required"`
	Name           string      `json:"name" validate:"required"`
	WeeklyHourCap  int         `json:"weekly_hour_cap"`
	MonthlyHourCap int         `json:"monthly_hour_cap"`
	Unavailable    []WindowDTO `json:"unavailable" validate:"dive"`
	Active         *bool       `json:"active"`
}

type VacationDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
}

type CreateVacationRequest struct {
	ID         string `json:"id" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required"`
	EndDate    string `json:"end_date" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// =============================================================================
// ERRORS AND SCENARIOS
// =============================================================================

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ID string `json:"id" validate:"required"`
}
