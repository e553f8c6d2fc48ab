package schedule_test

import (
	"context"
	"testing"

	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/schedule/store"
)

// =============================================================================
// TEST FIXTURE
// =============================================================================

// newTestEngine wires an engine over a memory store with every weekday open
// 08:00-23:00 and a warm snapshot.
func newTestEngine(t *testing.T, opts schedule.Options) (*schedule.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	mem.SetWeeklySchedule(testLoc, mustWeekly(t, allWeek("08:00", "23:00")))

	eng := schedule.NewEngine(mem, testLoc, opts)
	if err := eng.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return eng, mem
}

func onlyShift(t *testing.T, mem *store.Memory) schedule.Shift {
	t.Helper()
	shifts, err := mem.ShiftsByLocation(context.Background(), testLoc)
	if err != nil {
		t.Fatalf("list shifts: %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected exactly one shift, got %d", len(shifts))
	}
	return shifts[0]
}

// =============================================================================
// CREATE
// =============================================================================

func TestEngine_CreateShift_PersistsUnpublished(t *testing.T) {
	// GIVEN: A valid candidate
	// WHEN: Creating through the engine
	// THEN: Persisted unpublished at version 1 with exact hours

	eng, mem := newTestEngine(t, schedule.Options{})

	errs, err := eng.ValidateAndCreateShift(context.Background(), candidate("emp-1", "2026-09-07", "09:00", "17:30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected acceptance, got %v", codes(errs))
	}

	s := onlyShift(t, mem)
	if s.Published {
		t.Error("new shifts must start unpublished")
	}
	if s.Version != 1 {
		t.Errorf("expected version 1, got %d", s.Version)
	}
	if s.Hours.String() != "8.5" {
		t.Errorf("expected 8.5 hours, got %s", s.Hours)
	}
}

func TestEngine_CreateShift_RejectionPersistsNothing(t *testing.T) {
	eng, mem := newTestEngine(t, schedule.Options{})

	errs, err := eng.ValidateAndCreateShift(context.Background(), candidate("emp-1", "2026-09-07", "07:00", "12:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasCode(errs, schedule.CodeOutsideStoreHours) {
		t.Fatalf("expected outside_store_hours, got %v", codes(errs))
	}

	shifts, _ := mem.ShiftsByLocation(context.Background(), testLoc)
	if len(shifts) != 0 {
		t.Fatalf("rejection must persist nothing, found %d shifts", len(shifts))
	}
}

func TestEngine_CreateShift_WriteTimeOverlapBackstop(t *testing.T) {
	// GIVEN: A conflicting shift written directly to the store after the
	//        engine's snapshot was taken
	// WHEN: Creating an overlapping candidate (local validation passes)
	// THEN: The store's write-time check rejects it as shift_overlap

	eng, mem := newTestEngine(t, schedule.Options{})

	sneaked := schedule.Shift{
		ID: "shift-raced", EmployeeID: "emp-1", LocationID: testLoc,
		Date:  schedule.MustDate("2026-09-07"),
		Start: schedule.MustClock("09:00"), End: schedule.MustClock("13:00"),
	}
	if err := mem.CreateShift(context.Background(), sneaked); err != nil {
		t.Fatalf("direct write: %v", err)
	}
	// Deliberately no engine refresh here: the snapshot is now outdated.

	errs, err := eng.ValidateAndCreateShift(context.Background(), candidate("emp-1", "2026-09-07", "10:00", "14:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 1 || errs[0].Code != schedule.CodeShiftOverlap {
		t.Fatalf("expected shift_overlap from write-time check, got %v", codes(errs))
	}

	shifts, _ := mem.ShiftsByLocation(context.Background(), testLoc)
	if len(shifts) != 1 {
		t.Fatalf("only the raced shift should exist, found %d", len(shifts))
	}
}

// =============================================================================
// UPDATE
// =============================================================================

func TestEngine_UpdateShift_BumpsVersionAndClearsPublished(t *testing.T) {
	// GIVEN: A published shift
	// WHEN: Editing its end time
	// THEN: Times change, version bumps, published is cleared

	eng, mem := newTestEngine(t, schedule.Options{})
	ctx := context.Background()

	if _, err := eng.ValidateAndCreateShift(ctx, candidate("emp-1", "2026-09-07", "09:00", "17:00")); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := onlyShift(t, mem)
	if err := eng.PublishShifts(ctx, []schedule.ShiftID{created.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	newEnd := "18:00"
	errs, err := eng.ValidateAndUpdateShift(ctx, created.ID, schedule.ShiftPatch{End: &newEnd})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected acceptance, got %v", codes(errs))
	}

	updated, ok := mem.Shift(created.ID)
	if !ok {
		t.Fatal("shift vanished")
	}
	if updated.End != schedule.MustClock("18:00") {
		t.Errorf("expected end 18:00, got %s", updated.End)
	}
	if updated.Published {
		t.Error("editing must clear published")
	}
	if updated.Version <= created.Version {
		t.Errorf("expected version bump past %d, got %d", created.Version, updated.Version)
	}
	if updated.Hours.String() != "9" {
		t.Errorf("expected recomputed 9 hours, got %s", updated.Hours)
	}
}

func TestEngine_UpdateShift_UnknownIDIsNotFound(t *testing.T) {
	eng, _ := newTestEngine(t, schedule.Options{})

	newEnd := "18:00"
	_, err := eng.ValidateAndUpdateShift(context.Background(), "shift-missing", schedule.ShiftPatch{End: &newEnd})
	if !schedule.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestEngine_UpdateShift_RetriesOnceAfterVersionConflict(t *testing.T) {
	// GIVEN: The stored version moved ahead of the engine's snapshot
	// WHEN: Updating through the engine
	// THEN: One refresh-and-retry succeeds transparently

	eng, mem := newTestEngine(t, schedule.Options{})
	ctx := context.Background()

	if _, err := eng.ValidateAndCreateShift(ctx, candidate("emp-1", "2026-09-07", "09:00", "17:00")); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := onlyShift(t, mem)

	// Concurrent writer bumps the version behind the engine's back.
	raced := created
	raced.End = schedule.MustClock("17:30")
	if err := mem.UpdateShift(ctx, raced, created.Version); err != nil {
		t.Fatalf("direct update: %v", err)
	}

	newEnd := "19:00"
	errs, err := eng.ValidateAndUpdateShift(ctx, created.ID, schedule.ShiftPatch{End: &newEnd})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("expected retry to succeed, got %v", codes(errs))
	}

	final, _ := mem.Shift(created.ID)
	if final.End != schedule.MustClock("19:00") {
		t.Errorf("expected end 19:00 after retry, got %s", final.End)
	}
	if final.Version != created.Version+2 {
		t.Errorf("expected version %d, got %d", created.Version+2, final.Version)
	}
}

func TestEngine_UpdateShift_RevalidatesAgainstStoreHours(t *testing.T) {
	// Moving a valid shift outside store hours is rejected on update, same
	// as it would be on create.

	eng, mem := newTestEngine(t, schedule.Options{})
	ctx := context.Background()

	if _, err := eng.ValidateAndCreateShift(ctx, candidate("emp-1", "2026-09-07", "09:00", "17:00")); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := onlyShift(t, mem)

	newStart := "06:00"
	errs, err := eng.ValidateAndUpdateShift(ctx, created.ID, schedule.ShiftPatch{Start: &newStart})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasCode(errs, schedule.CodeOutsideStoreHours) {
		t.Fatalf("expected outside_store_hours on update, got %v", codes(errs))
	}

	unchanged, _ := mem.Shift(created.ID)
	if unchanged.Start != schedule.MustClock("09:00") {
		t.Errorf("rejected update must not change the shift, got start %s", unchanged.Start)
	}
}

// =============================================================================
// DELETE AND PUBLISH
// =============================================================================

func TestEngine_DeleteShift(t *testing.T) {
	eng, mem := newTestEngine(t, schedule.Options{})
	ctx := context.Background()

	if _, err := eng.ValidateAndCreateShift(ctx, candidate("emp-1", "2026-09-07", "09:00", "17:00")); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := onlyShift(t, mem)

	if err := eng.DeleteShift(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := mem.Shift(created.ID); ok {
		t.Fatal("shift still present after delete")
	}
	if err := eng.DeleteShift(ctx, created.ID); !schedule.IsNotFound(err) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
}

func TestEngine_PublishShifts_BypassesRevalidation(t *testing.T) {
	// GIVEN: A valid shift, then the day is closed by an exception
	// WHEN: Publishing the now-invalid shift
	// THEN: Publishing succeeds; it changes visibility, never times

	eng, mem := newTestEngine(t, schedule.Options{})
	ctx := context.Background()

	if _, err := eng.ValidateAndCreateShift(ctx, candidate("emp-1", "2026-09-07", "09:00", "17:00")); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := onlyShift(t, mem)

	mem.AddException(testLoc, schedule.StoreException{Date: schedule.MustDate("2026-09-07"), IsOpen: false})

	if err := eng.PublishShifts(ctx, []schedule.ShiftID{created.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	published, _ := mem.Shift(created.ID)
	if !published.Published {
		t.Error("expected shift published despite failing current validation")
	}
}

// =============================================================================
// STORE HOURS QUERIES
// =============================================================================

func TestEngine_OpenQueries(t *testing.T) {
	eng, mem := newTestEngine(t, schedule.Options{})
	ctx := context.Background()

	mem.AddException(testLoc, schedule.StoreException{Date: schedule.MustDate("2026-12-25"), IsOpen: false})
	if err := eng.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	open, err := eng.IsDateOpen(ctx, schedule.MustDate("2026-12-25"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if open {
		t.Error("expected closed on the exception date")
	}

	ranges, err := eng.PermittedRanges(ctx, schedule.MustDate("2026-12-24"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranges) != 1 || ranges[0] != tr("08:00", "23:00") {
		t.Errorf("expected weekly range 08:00-23:00, got %v", ranges)
	}
}
