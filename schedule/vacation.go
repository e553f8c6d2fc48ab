/*
vacation.go - Vacation conflict oracle

PURPOSE:
  Answers whether an employee has an approved absence covering a given date.
  Pending and rejected requests never constrain scheduling.

FAILURE POLICY:
  When the underlying lookup fails, the oracle applies an explicit FailMode:

  - FailOpen (default): report no conflict. Scheduling continues; an absent
    employee may get a shift that has to be fixed later. This prefers
    availability over correctness and is the documented default.
  - FailClosed: report a conflict. Scheduling blocks until the store
    recovers.

  The mode is configuration, not an incidental catch-and-default, and both
  branches are covered by dedicated tests.

SEE ALSO:
  - snapshot.go: The usual VacationSource (cached approved requests)
  - validator.go: Consumes the oracle as check #4
*/
package schedule

import "context"

// FailMode selects the oracle's behavior when the vacation lookup fails.
type FailMode int

const (
	// FailOpen treats a failed lookup as "no conflict".
	FailOpen FailMode = iota
	// FailClosed treats a failed lookup as "conflict".
	FailClosed
)

func (m FailMode) String() string {
	if m == FailClosed {
		return "closed"
	}
	return "open"
}

// VacationSource supplies approved vacation requests for an employee.
// Implementations: the snapshot cache, or a store-backed lookup.
type VacationSource interface {
	ApprovedVacations(ctx context.Context, employeeID EmployeeID) ([]VacationRequest, error)
}

// VacationOracle decides vacation conflicts for candidate shifts.
type VacationOracle struct {
	Source VacationSource
	Mode   FailMode
}

// HasApprovedConflict reports whether an approved request covers the date
// (inclusive range, calendar-date comparison). On lookup failure the
// configured FailMode decides the answer; the error is returned alongside so
// callers can log it.
func (o *VacationOracle) HasApprovedConflict(ctx context.Context, employeeID EmployeeID, date Date) (bool, error) {
	requests, err := o.Source.ApprovedVacations(ctx, employeeID)
	if err != nil {
		return o.Mode == FailClosed, err
	}
	for _, req := range requests {
		if req.Status != VacationApproved {
			continue
		}
		if req.Covers(date) {
			return true, nil
		}
	}
	return false, nil
}
