package schedule_test

import (
	"context"
	"errors"
	"testing"

	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/schedule/store"
)

// flakySource wraps a memory store and fails reads on demand.
type flakySource struct {
	*store.Memory
	failing bool
}

func (f *flakySource) ShiftsByLocation(ctx context.Context, loc schedule.LocationID) ([]schedule.Shift, error) {
	if f.failing {
		return nil, errors.New("connection reset")
	}
	return f.Memory.ShiftsByLocation(ctx, loc)
}

func TestSnapshot_ReadsFailUntilFirstRefresh(t *testing.T) {
	snap := schedule.NewSnapshot(store.NewMemory(), testLoc)

	if _, err := snap.Shifts(); !errors.Is(err, schedule.ErrSnapshotStale) {
		t.Fatalf("expected stale error before first refresh, got %v", err)
	}
	if err := snap.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if _, err := snap.Shifts(); err != nil {
		t.Fatalf("expected reads to work after refresh, got %v", err)
	}
}

func TestSnapshot_InvalidateForcesRefresh(t *testing.T) {
	snap := schedule.NewSnapshot(store.NewMemory(), testLoc)
	if err := snap.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	snap.Invalidate()
	if _, err := snap.Calendar(); !errors.Is(err, schedule.ErrSnapshotStale) {
		t.Fatalf("expected stale error after Invalidate, got %v", err)
	}
}

func TestSnapshot_FailedRefreshKeepsPriorState(t *testing.T) {
	// GIVEN: A warm snapshot whose source starts failing
	// WHEN: Refreshing
	// THEN: Refresh errors as retryable; cached reads keep serving

	mem := store.NewMemory()
	if err := mem.CreateShift(context.Background(), schedule.Shift{
		ID: "shift-1", EmployeeID: "emp-1", LocationID: testLoc,
		Date:  schedule.MustDate("2026-09-07"),
		Start: schedule.MustClock("09:00"), End: schedule.MustClock("17:00"),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	src := &flakySource{Memory: mem}
	snap := schedule.NewSnapshot(src, testLoc)
	if err := snap.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	src.failing = true
	err := snap.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh failure")
	}
	if !schedule.IsRetryable(err) {
		t.Errorf("refresh failure should be retryable, got %v", err)
	}

	shifts, err := snap.Shifts()
	if err != nil {
		t.Fatalf("prior state must keep serving, got %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected the cached shift, got %d", len(shifts))
	}
}

func TestSnapshot_ShiftsOnFiltersByDate(t *testing.T) {
	mem := store.NewMemory()
	for i, date := range []string{"2026-09-07", "2026-09-07", "2026-09-08"} {
		if err := mem.CreateShift(context.Background(), schedule.Shift{
			ID:         schedule.ShiftID(string(rune('a' + i))),
			EmployeeID: schedule.EmployeeID(string(rune('x' + i))),
			LocationID: testLoc,
			Date:       schedule.MustDate(date),
			Start:      schedule.MustClock("09:00"), End: schedule.MustClock("17:00"),
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	snap := schedule.NewSnapshot(mem, testLoc)
	if err := snap.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	monday, err := snap.ShiftsOn(schedule.MustDate("2026-09-07"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(monday) != 2 {
		t.Fatalf("expected 2 shifts on 2026-09-07, got %d", len(monday))
	}
}
