/*
batch.go - Template application and week duplication

PURPOSE:
  Generates multiple concrete shifts from a pattern and runs each through the
  validator. Items are validated and persisted INDEPENDENTLY: a failure on
  one is appended to the aggregate error list and never prevents the
  remaining items from being attempted.

CONCURRENCY:
  Per-item writes are issued concurrently with no ordering guarantee among
  them. The only serialization point is waiting for all writes to settle
  before returning the aggregated error list. Two batch items that collide
  with each other are caught by the store's write-time overlap check, not by
  local validation (the snapshot does not see in-flight siblings).

DAY DUPLICATION SEMANTICS:
  DuplicateDay copies only shifts literally dated sourceDate, seven days
  forward. It is "copy one day forward by a week", not "copy a week";
  callers invoke it once per day they wish to copy.

SEE ALSO:
  - engine.go: Single-shift write path these batches reuse
  - validator.go: Per-item validation
*/
package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// ApplyTemplate instantiates every blueprint of the template against the
// anchor date, validating and persisting each independently. The returned
// list carries one or more entries per failed blueprint, tagged with the
// blueprint's index; an empty list means every blueprint persisted.
func (e *Engine) ApplyTemplate(ctx context.Context, templateID TemplateID, anchor Date) ([]ValidationError, error) {
	tmpl, err := e.store.TemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}

	if err := e.snapshot.Refresh(ctx); err != nil {
		return nil, err
	}

	items := make([]Candidate, len(tmpl.Blueprints))
	for i, bp := range tmpl.Blueprints {
		items[i] = Candidate{
			EmployeeID: bp.EmployeeID,
			LocationID: e.location,
			Date:       anchor.AddDays(bp.DayOffset),
			Start:      bp.Start,
			End:        bp.End,
		}
	}

	errs := e.runBatch(ctx, items)
	e.refreshAfterWrite(ctx)
	return errs, nil
}

// DuplicateDay re-creates every shift dated exactly sourceDate seven days
// later, unpublished, with the same per-item independent-failure semantics
// as template application. Original shifts are left untouched.
func (e *Engine) DuplicateDay(ctx context.Context, sourceDate Date) ([]ValidationError, error) {
	if err := e.snapshot.Refresh(ctx); err != nil {
		return nil, err
	}

	source, err := e.snapshot.ShiftsOn(sourceDate)
	if err != nil {
		return nil, err
	}

	items := make([]Candidate, len(source))
	for i, s := range source {
		items[i] = Candidate{
			EmployeeID: s.EmployeeID,
			LocationID: e.location,
			Date:       s.Date.AddDays(7),
			Start:      s.Start.String(),
			End:        s.End.String(),
		}
	}

	errs := e.runBatch(ctx, items)
	e.refreshAfterWrite(ctx)
	return errs, nil
}

// runBatch validates every item against the current snapshot, then fires the
// accepted writes concurrently and waits for all of them to settle. Errors
// come back tagged with their item index, ordered by index.
func (e *Engine) runBatch(ctx context.Context, items []Candidate) []ValidationError {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed []ValidationError
	)

	record := func(item int, errs ...ValidationError) {
		mu.Lock()
		defer mu.Unlock()
		for _, verr := range errs {
			verr.Item = item
			verr.Message = fmt.Sprintf("item %d: %s", item, verr.Message)
			failed = append(failed, verr)
		}
	}

	for i, c := range items {
		if errs := e.validator.Validate(ctx, c); len(errs) > 0 {
			record(i, errs...)
			continue
		}

		shift := e.buildShift(newShiftID(), c)
		wg.Add(1)
		go func(item int, shift Shift) {
			defer wg.Done()
			if verr := e.writeShift(ctx, func(wctx context.Context) error {
				return e.store.CreateShift(wctx, shift)
			}); verr != nil {
				record(item, *verr)
			}
		}(i, shift)
	}

	wg.Wait()

	sort.SliceStable(failed, func(i, j int) bool { return failed[i].Item < failed[j].Item })
	return failed
}
