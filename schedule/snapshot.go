/*
snapshot.go - Cached read state for validation

PURPOSE:
  The engine validates against a local snapshot of shifts, store hours,
  exceptions, and approved vacations for one location. The snapshot is an
  explicit object with a defined Refresh/Invalidate lifecycle, injected into
  the validator rather than read from ambient process state.

CONSISTENCY:
  The snapshot may lag the authoritative store by a refresh interval.
  Validation-then-write is therefore not transactional; the store boundary
  closes the resulting race with a write-time overlap check and optimistic
  version checks (see store.go).

LIFECYCLE:
  snap := schedule.NewSnapshot(store, locationID)
  if err := snap.Refresh(ctx); err != nil { ... }
  // ... validations read the cached state ...
  snap.Invalidate() // next read fails until refreshed

  The api package runs a background refresher that calls Refresh on a ticker
  and on every store change notification.

SEE ALSO:
  - store.go: SnapshotSource (the read side of ShiftStore)
  - api/refresher.go: Periodic refresh loop
*/
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SnapshotSource is the read side of the store the snapshot caches.
type SnapshotSource interface {
	ShiftsByLocation(ctx context.Context, locationID LocationID) ([]Shift, error)
	WeeklyScheduleByLocation(ctx context.Context, locationID LocationID) (*WeeklySchedule, error)
	ExceptionsByLocation(ctx context.Context, locationID LocationID) ([]StoreException, error)
	VacationsByLocation(ctx context.Context, locationID LocationID) ([]VacationRequest, error)
}

// Snapshot caches one location's scheduling state. Safe for concurrent use.
type Snapshot struct {
	source   SnapshotSource
	location LocationID

	mu          sync.RWMutex
	valid       bool
	refreshedAt time.Time
	shifts      []Shift
	calendar    *HoursCalendar
	vacations   map[EmployeeID][]VacationRequest
}

func NewSnapshot(source SnapshotSource, location LocationID) *Snapshot {
	return &Snapshot{source: source, location: location}
}

// Refresh reloads the full read state from the source. On any load failure
// the previous state is kept and the snapshot stays in its prior validity.
func (s *Snapshot) Refresh(ctx context.Context) error {
	shifts, err := s.source.ShiftsByLocation(ctx, s.location)
	if err != nil {
		return &TransientStoreError{Op: "load shifts", Err: err}
	}
	weekly, err := s.source.WeeklyScheduleByLocation(ctx, s.location)
	if err != nil {
		return &TransientStoreError{Op: "load weekly schedule", Err: err}
	}
	exceptions, err := s.source.ExceptionsByLocation(ctx, s.location)
	if err != nil {
		return &TransientStoreError{Op: "load exceptions", Err: err}
	}
	vacations, err := s.source.VacationsByLocation(ctx, s.location)
	if err != nil {
		return &TransientStoreError{Op: "load vacations", Err: err}
	}

	byEmployee := make(map[EmployeeID][]VacationRequest)
	for _, v := range vacations {
		if v.Status == VacationApproved {
			byEmployee[v.EmployeeID] = append(byEmployee[v.EmployeeID], v)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts = shifts
	s.calendar = NewHoursCalendar(weekly, exceptions)
	s.vacations = byEmployee
	s.refreshedAt = time.Now()
	s.valid = true
	return nil
}

// Invalidate marks the snapshot stale. Reads fail until the next Refresh.
func (s *Snapshot) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = false
}

// Location returns the location this snapshot caches.
func (s *Snapshot) Location() LocationID { return s.location }

// RefreshedAt returns the time of the last successful refresh.
func (s *Snapshot) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// Shifts returns a copy of the cached shifts.
func (s *Snapshot) Shifts() ([]Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return nil, ErrSnapshotStale
	}
	out := make([]Shift, len(s.shifts))
	copy(out, s.shifts)
	return out, nil
}

// Shift returns the cached shift with the given ID.
func (s *Snapshot) Shift(id ShiftID) (Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return Shift{}, ErrSnapshotStale
	}
	for _, sh := range s.shifts {
		if sh.ID == id {
			return sh, nil
		}
	}
	return Shift{}, fmt.Errorf("shift %s: %w", id, ErrShiftNotFound)
}

// ShiftsOn returns the cached shifts dated exactly on the given date.
func (s *Snapshot) ShiftsOn(date Date) ([]Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return nil, ErrSnapshotStale
	}
	var out []Shift
	for _, sh := range s.shifts {
		if sh.Date.Equal(date) {
			out = append(out, sh)
		}
	}
	return out, nil
}

// Calendar returns the cached hours calendar.
func (s *Snapshot) Calendar() (*HoursCalendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return nil, ErrSnapshotStale
	}
	return s.calendar, nil
}

// ApprovedVacations implements VacationSource from the cached state.
func (s *Snapshot) ApprovedVacations(_ context.Context, employeeID EmployeeID) ([]VacationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.valid {
		return nil, ErrSnapshotStale
	}
	return s.vacations[employeeID], nil
}
