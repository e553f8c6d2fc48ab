/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. ValidationError - Business-rule violations. These are VALUES, not Go
     errors in the usual flow: the validator returns a list so the caller can
     display every problem at once. Never retried.
  2. Transient store errors - Write/read failures against the backing store.
     Retryable with bounded backoff.
  3. Structural errors - Missing location, missing shift/template. Fatal to
     the operation, abort immediately without partial work.

USAGE:
  errs := validator.Validate(ctx, candidate)
  if len(errs) > 0 {
      // render all of them; nothing was persisted
  }

  if schedule.IsRetryable(err) {
      // version conflict or transient store failure; safe to retry once
  }

SEE ALSO:
  - validator.go: Produces ValidationError lists
  - store.go: Produces the sentinel and transient errors
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoLocation is returned when an operation runs without a resolvable
	// current location. Structural: the operation aborts immediately.
	ErrNoLocation = errors.New("no location selected")

	// ErrShiftNotFound is returned when a referenced shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrTemplateNotFound is returned when a referenced template doesn't exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrVersionConflict is returned when optimistic locking detects that the
	// shift was modified between read and write. Retryable after a refresh.
	ErrVersionConflict = errors.New("version conflict: shift modified concurrently")

	// ErrOverlapOnWrite is returned when the store's write-time overlap check
	// catches a conflicting shift that local validation missed (two callers
	// racing against stale snapshots).
	ErrOverlapOnWrite = errors.New("overlapping shift detected on write")

	// ErrSnapshotStale is returned when the engine's read snapshot has never
	// been refreshed or has been invalidated.
	ErrSnapshotStale = errors.New("snapshot not refreshed")
)

// =============================================================================
// VALIDATION ERRORS - Business-rule violations, returned as a list
// =============================================================================

type ValidationCode string

const (
	CodeNoLocation        ValidationCode = "no_location"
	CodeBadStartTime      ValidationCode = "bad_start_time"
	CodeBadEndTime        ValidationCode = "bad_end_time"
	CodeEndNotAfterStart  ValidationCode = "end_not_after_start"
	CodeVacationConflict  ValidationCode = "vacation_conflict"
	CodeShiftOverlap      ValidationCode = "shift_overlap"
	CodeOutsideStoreHours ValidationCode = "outside_store_hours"
	CodeStoreError        ValidationCode = "store_error"
)

// ValidationError is a structured reason a candidate shift was rejected,
// returned to the caller without side effects. Item is set by batch
// operations to the index of the blueprint or source shift that failed.
type ValidationError struct {
	Code    ValidationCode
	Message string
	Item    int
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidation(code ValidationCode, format string, args ...any) ValidationError {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...), Item: -1}
}

// =============================================================================
// TRANSIENT STORE ERRORS - Retryable persistence failures
// =============================================================================

// TransientStoreError wraps a store read/write failure that may succeed on
// retry (timeouts, connection loss). Batch operations record these against
// the failing item without aborting sibling items.
type TransientStoreError struct {
	Op  string // e.g. "create shift", "load vacations"
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("transient store error during %s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	var transient *TransientStoreError
	return errors.Is(err, ErrVersionConflict) || errors.As(err, &transient)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrTemplateNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}
