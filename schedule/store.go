/*
store.go - Persistence boundary for the scheduling engine

PURPOSE:
  Defines the interface between the engine and the backing store. Different
  implementations can use SQLite or in-memory storage; the engine only
  depends on these interfaces.

CONSISTENCY GUARANTEES:
  Local validation reads a cached snapshot that may lag the store, so two
  near-simultaneous proposals can both pass validation. The store closes
  that race with two mechanisms:

  1. Write-time overlap check: CreateShift and UpdateShift re-check the
     candidate against the authoritative shifts for the same employee/date
     inside the store's own write lock or transaction, returning
     ErrOverlapOnWrite on conflict.
  2. Optimistic versioning: every shift carries a Version. UpdateShift
     rejects a write whose expected version is stale (ErrVersionConflict).

SUBSCRIPTION FEED:
  Subscribe registers a callback invoked after every successful mutation.
  The api layer uses it to refresh the engine snapshot on remote change.
  Callbacks must be fast and must not call back into the store.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite adapter
  - schedule/store: In-memory adapter for tests and dev

SEE ALSO:
  - snapshot.go: SnapshotSource (the read subset)
  - engine.go: The only writer
*/
package schedule

import "context"

// ShiftStore is the engine's persistence boundary.
type ShiftStore interface {
	SnapshotSource

	// CreateShift persists a new shift. Performs the write-time overlap
	// check; returns ErrOverlapOnWrite if the shift collides with an
	// existing shift for the same employee and date.
	CreateShift(ctx context.Context, shift Shift) error

	// UpdateShift replaces a shift's mutable fields. expectedVersion must
	// match the stored version or ErrVersionConflict is returned; on
	// success the stored version is incremented. Also performs the
	// write-time overlap check. Returns ErrShiftNotFound for unknown IDs.
	UpdateShift(ctx context.Context, shift Shift, expectedVersion int64) error

	// DeleteShift removes a shift. Deletion is terminal from any state.
	DeleteShift(ctx context.Context, id ShiftID) error

	// PublishShifts sets Published=true on the given shifts. Bypasses
	// validation by design; unknown IDs are skipped.
	PublishShifts(ctx context.Context, ids []ShiftID) error

	// TemplateByID loads a shift template. Returns ErrTemplateNotFound.
	TemplateByID(ctx context.Context, id TemplateID) (*Template, error)

	// Subscribe registers fn to run after every successful mutation.
	Subscribe(fn func())
}
