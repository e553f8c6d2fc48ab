/*
types.go - Domain entities for the scheduling engine

PURPOSE:
  Defines the entities the engine reads and writes: shifts, employees,
  vacation requests, and templates. Store-hours types live in hours.go.

KEY CONCEPTS:
  - Shift: One employee's scheduled work interval on one date at one location
  - Candidate: A proposed shift before validation (times still raw strings)
  - Template: A reusable, date-agnostic pattern of shift blueprints
  - VacationRequest: Read-only input; only approved requests constrain scheduling

DESIGN PRINCIPLES:
  1. Type Safety: Strong typing for IDs prevents mixing employee/location IDs
  2. Precision: decimal.Decimal for duration hours, no floating-point error
  3. Shifts never cross location boundaries in a single validation
  4. Duration is always recomputed from start/end, never supplied directly

SEE ALSO:
  - validator.go: Turns a Candidate into an accepted Shift
  - hours.go: WeeklySchedule, StoreException, TimeRange
  - store.go: Persistence boundary for these entities
*/
package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type LocationID string
type EmployeeID string
type ShiftID string
type TemplateID string

// =============================================================================
// SHIFT - A scheduled work interval
// =============================================================================

// Shift is a single employee's work interval on one date at one location.
//
// Lifecycle: created unpublished; any edit to date/time/employee clears
// Published; publishing is explicit and bypasses re-validation; deletion is
// terminal from any state.
type Shift struct {
	ID         ShiftID
	EmployeeID EmployeeID
	LocationID LocationID
	Date       Date
	Start      ClockTime
	End        ClockTime

	// Hours is derived from Start/End ((end-start) minutes / 60), exact.
	Hours decimal.Decimal

	Published bool

	// Version supports optimistic concurrency at the store boundary.
	// Incremented on every write; stale updates are rejected.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Candidate is a proposed shift prior to validation. Times are carried as raw
// "HH:MM" strings because parseability is itself a validation check.
//
// ID is empty when proposing a new shift. When editing, ID names the shift
// being edited so the conflict detector ignores it.
type Candidate struct {
	ID         ShiftID
	EmployeeID EmployeeID
	LocationID LocationID
	Date       Date
	Start      string
	End        string
}

// ShiftPatch is a partial update to an existing shift. Nil fields are left
// unchanged. Any applied patch clears Published, whether or not the time
// fields changed.
type ShiftPatch struct {
	EmployeeID *EmployeeID
	Date       *Date
	Start      *string
	End        *string
}

// =============================================================================
// EMPLOYEE - Directory entry (advisory inputs only)
// =============================================================================

// UnavailableWindow is a recurring window during which an employee prefers
// not to be scheduled. Informational: scheduling UIs display these, but the
// validator does not enforce them.
type UnavailableWindow struct {
	Weekday time.Weekday
	Start   ClockTime
	End     ClockTime
}

// Employee is a directory entry. The engine itself only needs the ID (for
// conflict scoping) and Name (for error messages); hour ceilings and
// unavailable windows are advisory.
type Employee struct {
	ID         EmployeeID
	LocationID LocationID
	Name       string

	// Advisory ceilings, not enforced by validation.
	WeeklyHourCap  int
	MonthlyHourCap int

	Unavailable []UnavailableWindow
	Active      bool
}

// =============================================================================
// VACATION REQUEST - Read-only absence input
// =============================================================================

type VacationStatus string

const (
	VacationPending  VacationStatus = "pending"
	VacationApproved VacationStatus = "approved"
	VacationRejected VacationStatus = "rejected"
)

// VacationRequest is an employee absence over an inclusive date range.
// The engine never writes these; only approved requests constrain scheduling.
type VacationRequest struct {
	ID         string
	EmployeeID EmployeeID
	StartDate  Date
	EndDate    Date
	Status     VacationStatus
}

// Covers reports whether the request's inclusive date range contains d.
// Calendar-date comparison, not time-of-day.
func (v VacationRequest) Covers(d Date) bool {
	return v.StartDate.BeforeOrEqual(d) && d.BeforeOrEqual(v.EndDate)
}

// =============================================================================
// TEMPLATE - Date-agnostic shift pattern
// =============================================================================

// Blueprint is one entry of a template: an employee, a day offset relative to
// the anchor date, and a time window. No concrete dates, no publish state.
type Blueprint struct {
	EmployeeID EmployeeID
	DayOffset  int // days after the anchor date (0 = anchor itself)
	Start      string
	End        string
}

// Template is a named ordered list of blueprints, instantiated against a
// caller-supplied anchor date.
type Template struct {
	ID         TemplateID
	LocationID LocationID
	Name       string
	Blueprints []Blueprint
	CreatedAt  time.Time
}
