/*
validator.go - Shift validator

PURPOSE:
  Orchestrates the store hours calendar, vacation oracle, and conflict
  detector to accept or reject a single proposed shift. Returns the full
  list of violations so the caller can display every problem at once.

CHECK ORDER:
  1. Location resolvable        (structural: aborts immediately)
  2. Start/end parse, hour 0-23 (accumulates)
  3. End strictly after start   (same-day only; accumulates)
  4. No approved-vacation conflict
  5. No overlap with the employee's other shifts that date
  6. Interval fully within permitted store hours

  Checks 5 and 6 need a well-formed interval and are skipped when 2 or 3
  failed; check 4 only needs the date and always runs.

OVERNIGHT SHIFTS:
  End must be strictly after start within the same day, so a legitimate
  overnight shift (22:00-02:00) is rejected. Known product limitation, kept
  deliberately; do not "fix" here.

IDEMPOTENCE:
  Validation has no side effects. Re-validating an unchanged candidate
  against unchanged state yields the identical error list.

SEE ALSO:
  - engine.go: Persists accepted candidates
  - snapshot.go: The cached state validated against
*/
package schedule

import (
	"context"

	"github.com/shopspring/decimal"
)

// Validator accepts or rejects candidate shifts against a snapshot.
type Validator struct {
	Snapshot *Snapshot
	Oracle   *VacationOracle
}

// Validate runs the full check list on the candidate. An empty result means
// the candidate is accepted. Never persists anything.
func (v *Validator) Validate(ctx context.Context, c Candidate) []ValidationError {
	if c.LocationID == "" {
		return []ValidationError{newValidation(CodeNoLocation, "no location selected")}
	}

	var errs []ValidationError

	start, startErr := ParseClock(c.Start)
	if startErr != nil {
		errs = append(errs, newValidation(CodeBadStartTime, "start time %q is not a valid HH:MM time", c.Start))
	}
	end, endErr := ParseClock(c.End)
	if endErr != nil {
		errs = append(errs, newValidation(CodeBadEndTime, "end time %q is not a valid HH:MM time", c.End))
	}

	timesValid := startErr == nil && endErr == nil
	if timesValid && end <= start {
		errs = append(errs, newValidation(CodeEndNotAfterStart, "end time %s must be after start time %s (same-day shifts only)", end, start))
		timesValid = false
	}

	if conflict, err := v.Oracle.HasApprovedConflict(ctx, c.EmployeeID, c.Date); conflict {
		if err != nil {
			// Fail-closed lookup failure surfaces as a conflict.
			errs = append(errs, newValidation(CodeVacationConflict, "vacation lookup failed and policy is fail-closed: %v", err))
		} else {
			errs = append(errs, newValidation(CodeVacationConflict, "employee is on approved vacation on %s", c.Date))
		}
	}

	if timesValid {
		existing, err := v.Snapshot.Shifts()
		if err != nil {
			errs = append(errs, newValidation(CodeStoreError, "could not load existing shifts: %v", err))
		} else if HasConflict(c.EmployeeID, c.Date, start, end, existing, c.ID) {
			errs = append(errs, newValidation(CodeShiftOverlap, "overlaps an existing shift for this employee on %s", c.Date))
		}

		calendar, err := v.Snapshot.Calendar()
		if err != nil {
			errs = append(errs, newValidation(CodeStoreError, "could not load store hours: %v", err))
		} else if !calendar.IsWithinStoreHours(c.Date, start, end) {
			errs = append(errs, newValidation(CodeOutsideStoreHours, "shift %s-%s is outside store hours on %s", start, end, c.Date))
		}
	}

	return errs
}

// ComputeHours derives the duration figure for an accepted shift.
// Exact for minute-granular inputs: (end-start) minutes / 60.
func ComputeHours(start, end ClockTime) decimal.Decimal {
	minutes := int64(end.Minutes() - start.Minutes())
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))
}
