/*
engine.go - Scheduling engine facade

PURPOSE:
  Wires the snapshot, validator, vacation oracle, and store into the
  operation surface callers use:

    ValidateAndCreateShift   Validate then persist a new shift
    ValidateAndUpdateShift   Validate then persist a partial edit
    DeleteShift              Remove a shift (terminal)
    PublishShifts            Mark shifts published, no re-validation
    ApplyTemplate            Instantiate a template (batch.go)
    DuplicateDay             Copy one day forward a week (batch.go)
    IsDateOpen               Store hours queries
    PermittedRanges

SCOPING:
  An Engine serves exactly one location. Every candidate is stamped with the
  engine's location; validation never crosses location boundaries.

ERROR SURFACE:
  Business-rule rejections come back as a []ValidationError with nothing
  persisted. Store failures on the write path surface in the same list
  (CodeStoreError) after one bounded retry. The Go error return is reserved
  for structural problems: unknown shift or template IDs.

WRITE PATH:
  Each store write runs under a bounded timeout. Retryable failures
  (version conflict, transient store error) get one retry after a snapshot
  refresh. The store's write-time overlap check backstops the
  validate-then-write race; a hit surfaces as a shift_overlap validation
  error.

SEE ALSO:
  - batch.go: Template application and day duplication
  - validator.go: The check list
*/
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
)

// DefaultWriteTimeout bounds each store write issued by the engine.
const DefaultWriteTimeout = 5 * time.Second

// Options configures engine policy knobs.
type Options struct {
	// VacationFailMode selects fail-open (default) or fail-closed behavior
	// when the vacation lookup fails. See vacation.go.
	VacationFailMode FailMode

	// WriteTimeout bounds each store write. Zero means DefaultWriteTimeout.
	WriteTimeout time.Duration
}

// Engine validates and persists shifts for a single location.
type Engine struct {
	store        ShiftStore
	location     LocationID
	writeTimeout time.Duration

	snapshot  *Snapshot
	validator *Validator
}

// NewEngine creates an engine for the given location. The snapshot starts
// stale; call Refresh (or let the api refresher do it) before validating.
func NewEngine(store ShiftStore, location LocationID, opts Options) *Engine {
	timeout := opts.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}

	snapshot := NewSnapshot(store, location)
	oracle := &VacationOracle{Source: snapshot, Mode: opts.VacationFailMode}

	return &Engine{
		store:        store,
		location:     location,
		writeTimeout: timeout,
		snapshot:     snapshot,
		validator:    &Validator{Snapshot: snapshot, Oracle: oracle},
	}
}

// Refresh reloads the engine's snapshot from the store.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.snapshot.Refresh(ctx)
}

// Snapshot exposes the engine's cached read state (for the api refresher and
// read endpoints).
func (e *Engine) Snapshot() *Snapshot { return e.snapshot }

// Location returns the location this engine serves.
func (e *Engine) Location() LocationID { return e.location }

// =============================================================================
// SINGLE-SHIFT OPERATIONS
// =============================================================================

// ValidateAndCreateShift validates the candidate and, when accepted, persists
// it unpublished. A non-empty result means rejection with nothing persisted.
func (e *Engine) ValidateAndCreateShift(ctx context.Context, c Candidate) ([]ValidationError, error) {
	c.LocationID = e.location
	c.ID = ""

	if errs := e.validator.Validate(ctx, c); len(errs) > 0 {
		return errs, nil
	}

	shift := e.buildShift(newShiftID(), c)
	if verr := e.writeShift(ctx, func(wctx context.Context) error {
		return e.store.CreateShift(wctx, shift)
	}); verr != nil {
		return []ValidationError{*verr}, nil
	}

	e.refreshAfterWrite(ctx)
	return nil, nil
}

// ValidateAndUpdateShift applies a partial edit to an existing shift. The
// merged result is re-validated in full (the shift being edited is excluded
// from the overlap scan) and persisted with Published cleared, whether or
// not the time fields changed.
func (e *Engine) ValidateAndUpdateShift(ctx context.Context, id ShiftID, patch ShiftPatch) ([]ValidationError, error) {
	// Two attempts: a version conflict refreshes and re-validates once.
	for attempt := 0; ; attempt++ {
		existing, err := e.snapshot.Shift(id)
		if errors.Is(err, ErrSnapshotStale) {
			if err := e.snapshot.Refresh(ctx); err != nil {
				return []ValidationError{newValidation(CodeStoreError, "could not refresh snapshot: %v", err)}, nil
			}
			existing, err = e.snapshot.Shift(id)
		}
		if err != nil {
			return nil, err
		}

		c := Candidate{
			ID:         id,
			EmployeeID: existing.EmployeeID,
			LocationID: e.location,
			Date:       existing.Date,
			Start:      existing.Start.String(),
			End:        existing.End.String(),
		}
		if patch.EmployeeID != nil {
			c.EmployeeID = *patch.EmployeeID
		}
		if patch.Date != nil {
			c.Date = *patch.Date
		}
		if patch.Start != nil {
			c.Start = *patch.Start
		}
		if patch.End != nil {
			c.End = *patch.End
		}

		if errs := e.validator.Validate(ctx, c); len(errs) > 0 {
			return errs, nil
		}

		updated := e.buildShift(id, c)
		updated.CreatedAt = existing.CreatedAt
		updated.Version = existing.Version

		err = e.writeOnce(ctx, func(wctx context.Context) error {
			return e.store.UpdateShift(wctx, updated, existing.Version)
		})
		switch {
		case err == nil:
			e.refreshAfterWrite(ctx)
			return nil, nil
		case errors.Is(err, ErrVersionConflict) && attempt == 0:
			// Someone else won the race; re-read and try once more.
			if err := e.snapshot.Refresh(ctx); err != nil {
				return []ValidationError{newValidation(CodeStoreError, "could not refresh snapshot: %v", err)}, nil
			}
		case errors.Is(err, ErrOverlapOnWrite):
			return []ValidationError{newValidation(CodeShiftOverlap, "overlaps a shift written concurrently on %s", c.Date)}, nil
		case IsNotFound(err):
			return nil, err
		default:
			return []ValidationError{newValidation(CodeStoreError, "could not update shift: %v", err)}, nil
		}
	}
}

// DeleteShift removes a shift. Terminal from any state.
func (e *Engine) DeleteShift(ctx context.Context, id ShiftID) error {
	err := e.writeOnce(ctx, func(wctx context.Context) error {
		return e.store.DeleteShift(wctx, id)
	})
	if err != nil {
		return err
	}
	e.refreshAfterWrite(ctx)
	return nil
}

// PublishShifts marks the given shifts published. By design this bypasses
// re-validation: publishing only changes visibility, never times.
func (e *Engine) PublishShifts(ctx context.Context, ids []ShiftID) error {
	err := e.writeOnce(ctx, func(wctx context.Context) error {
		return e.store.PublishShifts(wctx, ids)
	})
	if err != nil {
		return err
	}
	e.refreshAfterWrite(ctx)
	return nil
}

// =============================================================================
// STORE HOURS QUERIES
// =============================================================================

// IsDateOpen reports whether the store is open on the date.
func (e *Engine) IsDateOpen(ctx context.Context, date Date) (bool, error) {
	calendar, err := e.calendar(ctx)
	if err != nil {
		return false, err
	}
	return calendar.IsDateOpen(date), nil
}

// PermittedRanges resolves the open time ranges for the date.
func (e *Engine) PermittedRanges(ctx context.Context, date Date) ([]TimeRange, error) {
	calendar, err := e.calendar(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.PermittedRanges(date), nil
}

func (e *Engine) calendar(ctx context.Context) (*HoursCalendar, error) {
	calendar, err := e.snapshot.Calendar()
	if errors.Is(err, ErrSnapshotStale) {
		if err := e.snapshot.Refresh(ctx); err != nil {
			return nil, err
		}
		calendar, err = e.snapshot.Calendar()
	}
	return calendar, err
}

// =============================================================================
// WRITE HELPERS
// =============================================================================

func (e *Engine) buildShift(id ShiftID, c Candidate) Shift {
	// Candidate passed validation, so the times parse.
	start := MustClock(c.Start)
	end := MustClock(c.End)
	now := time.Now().UTC()
	return Shift{
		ID:         id,
		EmployeeID: c.EmployeeID,
		LocationID: c.LocationID,
		Date:       c.Date,
		Start:      start,
		End:        end,
		Hours:      ComputeHours(start, end),
		Published:  false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// writeOnce runs a single store write under the configured timeout.
func (e *Engine) writeOnce(ctx context.Context, write func(context.Context) error) error {
	wctx, cancel := context.WithTimeout(ctx, e.writeTimeout)
	defer cancel()
	err := write(wctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransientStoreError{Op: "store write", Err: err}
	}
	return err
}

// writeShift runs a write with one retry on transient failure, mapping the
// terminal outcome to a validation error (or nil on success).
func (e *Engine) writeShift(ctx context.Context, write func(context.Context) error) *ValidationError {
	err := e.writeOnce(ctx, write)
	if err != nil && IsRetryable(err) && !errors.Is(err, ErrOverlapOnWrite) {
		err = e.writeOnce(ctx, write)
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrOverlapOnWrite):
		verr := newValidation(CodeShiftOverlap, "overlaps a shift written concurrently")
		return &verr
	default:
		verr := newValidation(CodeStoreError, "could not persist shift: %v", err)
		return &verr
	}
}

// refreshAfterWrite brings the snapshot up to date after a successful write.
// Best effort: a failed refresh leaves the snapshot stale for the background
// refresher to repair.
func (e *Engine) refreshAfterWrite(ctx context.Context) {
	if err := e.snapshot.Refresh(ctx); err != nil {
		e.snapshot.Invalidate()
	}
}

var shiftSeq atomic.Uint64

func newShiftID() ShiftID {
	return ShiftID(fmt.Sprintf("shift-%d-%d", time.Now().UnixNano(), shiftSeq.Add(1)))
}
