// Package store provides ShiftStore implementations.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warp/shift-engine/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an in-memory ShiftStore. It enforces the same write-time
// guarantees as the SQLite adapter: overlap re-check under the write lock
// and optimistic version checks.
type Memory struct {
	mu          sync.RWMutex
	shifts      map[schedule.ShiftID]schedule.Shift
	schedules   map[schedule.LocationID]*schedule.WeeklySchedule
	exceptions  map[schedule.LocationID][]schedule.StoreException
	vacations   map[schedule.LocationID][]schedule.VacationRequest
	templates   map[schedule.TemplateID]schedule.Template
	subscribers []func()
}

func NewMemory() *Memory {
	return &Memory{
		shifts:     make(map[schedule.ShiftID]schedule.Shift),
		schedules:  make(map[schedule.LocationID]*schedule.WeeklySchedule),
		exceptions: make(map[schedule.LocationID][]schedule.StoreException),
		vacations:  make(map[schedule.LocationID][]schedule.VacationRequest),
		templates:  make(map[schedule.TemplateID]schedule.Template),
	}
}

// =============================================================================
// WRITES
// =============================================================================

// CreateShift persists a new shift after re-checking overlap against the
// authoritative state under the write lock.
func (m *Memory) CreateShift(_ context.Context, shift schedule.Shift) error {
	m.mu.Lock()
	if _, exists := m.shifts[shift.ID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("shift %s already exists", shift.ID)
	}
	if m.overlapsLocked(shift, "") {
		m.mu.Unlock()
		return schedule.ErrOverlapOnWrite
	}
	if shift.Version == 0 {
		shift.Version = 1
	}
	m.shifts[shift.ID] = shift
	m.mu.Unlock()

	m.notify()
	return nil
}

// UpdateShift replaces a shift if expectedVersion matches the stored version.
func (m *Memory) UpdateShift(_ context.Context, shift schedule.Shift, expectedVersion int64) error {
	m.mu.Lock()
	current, ok := m.shifts[shift.ID]
	if !ok {
		m.mu.Unlock()
		return schedule.ErrShiftNotFound
	}
	if current.Version != expectedVersion {
		m.mu.Unlock()
		return schedule.ErrVersionConflict
	}
	if m.overlapsLocked(shift, shift.ID) {
		m.mu.Unlock()
		return schedule.ErrOverlapOnWrite
	}
	shift.Version = current.Version + 1
	m.shifts[shift.ID] = shift
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *Memory) DeleteShift(_ context.Context, id schedule.ShiftID) error {
	m.mu.Lock()
	if _, ok := m.shifts[id]; !ok {
		m.mu.Unlock()
		return schedule.ErrShiftNotFound
	}
	delete(m.shifts, id)
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *Memory) PublishShifts(_ context.Context, ids []schedule.ShiftID) error {
	m.mu.Lock()
	now := time.Now().UTC()
	for _, id := range ids {
		s, ok := m.shifts[id]
		if !ok {
			continue
		}
		s.Published = true
		s.Version++
		s.UpdatedAt = now
		m.shifts[id] = s
	}
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *Memory) overlapsLocked(candidate schedule.Shift, excludeID schedule.ShiftID) bool {
	for _, s := range m.shifts {
		if s.EmployeeID != candidate.EmployeeID || !s.Date.Equal(candidate.Date) {
			continue
		}
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if schedule.Overlaps(candidate.Start, candidate.End, s.Start, s.End) {
			return true
		}
	}
	return false
}

// =============================================================================
// READS (SnapshotSource)
// =============================================================================

func (m *Memory) ShiftsByLocation(_ context.Context, locationID schedule.LocationID) ([]schedule.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []schedule.Shift
	for _, s := range m.shifts {
		if s.LocationID == locationID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) WeeklyScheduleByLocation(_ context.Context, locationID schedule.LocationID) (*schedule.WeeklySchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ws, ok := m.schedules[locationID]; ok {
		return ws, nil
	}
	// No configured hours: everything resolves closed.
	return &schedule.WeeklySchedule{}, nil
}

func (m *Memory) ExceptionsByLocation(_ context.Context, locationID schedule.LocationID) ([]schedule.StoreException, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schedule.StoreException, len(m.exceptions[locationID]))
	copy(out, m.exceptions[locationID])
	return out, nil
}

func (m *Memory) VacationsByLocation(_ context.Context, locationID schedule.LocationID) ([]schedule.VacationRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]schedule.VacationRequest, len(m.vacations[locationID]))
	copy(out, m.vacations[locationID])
	return out, nil
}

func (m *Memory) TemplateByID(_ context.Context, id schedule.TemplateID) (*schedule.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.templates[id]
	if !ok {
		return nil, schedule.ErrTemplateNotFound
	}
	out := t
	return &out, nil
}

// =============================================================================
// SUBSCRIPTION
// =============================================================================

// Subscribe registers fn to run after every successful mutation.
func (m *Memory) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *Memory) notify() {
	m.mu.RLock()
	subs := make([]func(), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// =============================================================================
// FIXTURE SETTERS - Seed state for tests and dev
// =============================================================================

func (m *Memory) SetWeeklySchedule(locationID schedule.LocationID, ws *schedule.WeeklySchedule) {
	m.mu.Lock()
	m.schedules[locationID] = ws
	m.mu.Unlock()
	m.notify()
}

func (m *Memory) AddException(locationID schedule.LocationID, ex schedule.StoreException) {
	m.mu.Lock()
	m.exceptions[locationID] = append(m.exceptions[locationID], ex)
	m.mu.Unlock()
	m.notify()
}

func (m *Memory) AddVacation(locationID schedule.LocationID, v schedule.VacationRequest) {
	m.mu.Lock()
	m.vacations[locationID] = append(m.vacations[locationID], v)
	m.mu.Unlock()
	m.notify()
}

func (m *Memory) PutTemplate(t schedule.Template) {
	m.mu.Lock()
	m.templates[t.ID] = t
	m.mu.Unlock()
	m.notify()
}

// Shift returns the stored shift by ID, for assertions in tests.
func (m *Memory) Shift(id schedule.ShiftID) (schedule.Shift, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shifts[id]
	return s, ok
}
