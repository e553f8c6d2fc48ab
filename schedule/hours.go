/*
hours.go - Store hours calendar

PURPOSE:
  Resolves, for a given calendar date, the set of permitted open time ranges
  by merging a weekly recurring schedule with date-specific exceptions
  (holidays, one-off hour changes).

RESOLUTION ORDER:
  1. If a StoreException exists for the date, its IsOpen/Ranges win outright.
  2. Otherwise the weekly entry for the date's weekday applies.
  3. If neither is open, the permitted range list is empty.

SPLIT DAYS:
  A day holds an ordered list of disjoint ranges, e.g. 09:00-13:00 and
  14:00-20:00 (closed for lunch). A shift must be fully contained within a
  single range; it may not span the closure gap.

CONSERVATIVE DEFAULT:
  A day with IsOpen=true but zero ranges is open-with-no-valid-window: every
  shift check fails until ranges are configured.

HOLIDAY DEFAULT ENTRY:
  The weekly schedule carries a synthetic eighth entry (index 7). An open
  exception that specifies no ranges of its own falls back to this entry's
  ranges, so "holiday hours" are configured once.

LEGACY MIGRATION:
  Older store records carried a single openTime/closeTime pair per day.
  NormalizeLegacyDay folds that pair into the Ranges list once, at load time,
  never on the query path.

SEE ALSO:
  - validator.go: Calls IsWithinStoreHours as a mandatory check
  - store.go: Loads WeeklySchedule and StoreException rows
*/
package schedule

import (
	"fmt"
	"sort"
)

// =============================================================================
// TIME RANGE
// =============================================================================

// TimeRange is a half-open [Open, Close) window within a single day.
type TimeRange struct {
	Open  ClockTime
	Close ClockTime
}

// Contains reports whether [start, end) is fully inside the range.
func (r TimeRange) Contains(start, end ClockTime) bool {
	return r.Open <= start && end <= r.Close
}

// Overlaps reports whether two ranges intersect (half-open semantics).
func (r TimeRange) Overlaps(other TimeRange) bool {
	return Overlaps(r.Open, r.Close, other.Open, other.Close)
}

func (r TimeRange) String() string {
	return r.Open.String() + "-" + r.Close.String()
}

// =============================================================================
// WEEKLY SCHEDULE - Recurring open hours per weekday
// =============================================================================

// HolidayIndex is the synthetic eighth weekly entry holding default holiday
// hours. Weekday entries are indexed 0 (Sunday) through 6 (Saturday).
const HolidayIndex = 7

// DayHours is the open state and permitted ranges for one weekly entry.
type DayHours struct {
	IsOpen bool
	Ranges []TimeRange
}

// WeeklySchedule holds one entry per weekday 0-6 plus the holiday default at
// index 7. Construct with NewWeeklySchedule, which enforces the disjoint-range
// invariant.
type WeeklySchedule struct {
	days [8]DayHours
}

// NewWeeklySchedule builds a schedule from per-index day hours. Ranges within
// a day are sorted by open time and must be mutually non-overlapping and
// well-formed (open strictly before close).
func NewWeeklySchedule(days map[int]DayHours) (*WeeklySchedule, error) {
	ws := &WeeklySchedule{}
	for idx, dh := range days {
		if idx < 0 || idx > HolidayIndex {
			return nil, fmt.Errorf("day index %d out of range 0-%d", idx, HolidayIndex)
		}
		normalized, err := normalizeRanges(dh.Ranges)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", idx, err)
		}
		ws.days[idx] = DayHours{IsOpen: dh.IsOpen, Ranges: normalized}
	}
	return ws, nil
}

// Day returns the entry for a weekday index 0-6 or HolidayIndex.
// Out-of-range indexes yield a closed day.
func (ws *WeeklySchedule) Day(idx int) DayHours {
	if idx < 0 || idx > HolidayIndex {
		return DayHours{}
	}
	return ws.days[idx]
}

func normalizeRanges(ranges []TimeRange) ([]TimeRange, error) {
	if len(ranges) == 0 {
		return nil, nil
	}
	sorted := make([]TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Open < sorted[j].Open })

	for i, r := range sorted {
		if r.Open >= r.Close {
			return nil, fmt.Errorf("range %s: open must precede close", r)
		}
		if i > 0 && sorted[i-1].Overlaps(r) {
			return nil, fmt.Errorf("ranges %s and %s overlap", sorted[i-1], r)
		}
	}
	return sorted, nil
}

// NormalizeLegacyDay folds a legacy single openTime/closeTime pair into a
// DayHours with a Ranges list. Called once at load time by store adapters;
// rows that already carry ranges are passed through untouched.
func NormalizeLegacyDay(isOpen bool, legacyOpen, legacyClose string, ranges []TimeRange) (DayHours, error) {
	if len(ranges) > 0 || legacyOpen == "" || legacyClose == "" {
		return DayHours{IsOpen: isOpen, Ranges: ranges}, nil
	}
	open, err := ParseClock(legacyOpen)
	if err != nil {
		return DayHours{}, fmt.Errorf("legacy open time: %w", err)
	}
	close, err := ParseClock(legacyClose)
	if err != nil {
		return DayHours{}, fmt.Errorf("legacy close time: %w", err)
	}
	return DayHours{IsOpen: isOpen, Ranges: []TimeRange{{Open: open, Close: close}}}, nil
}

// =============================================================================
// STORE EXCEPTION - Date-specific override
// =============================================================================

// StoreException supersedes the weekly entry for one exact date.
// An open exception with no ranges of its own inherits the holiday default
// entry's ranges.
type StoreException struct {
	Date   Date
	IsOpen bool
	Ranges []TimeRange
}

// =============================================================================
// HOURS CALENDAR - Merged view of weekly schedule and exceptions
// =============================================================================

// HoursCalendar answers "when is the store open on this date". Immutable once
// built; the snapshot layer rebuilds it on refresh.
type HoursCalendar struct {
	schedule   *WeeklySchedule
	exceptions map[string]StoreException // keyed by Date.String()
}

func NewHoursCalendar(schedule *WeeklySchedule, exceptions []StoreException) *HoursCalendar {
	m := make(map[string]StoreException, len(exceptions))
	for _, ex := range exceptions {
		m[ex.Date.String()] = ex
	}
	if schedule == nil {
		schedule = &WeeklySchedule{}
	}
	return &HoursCalendar{schedule: schedule, exceptions: m}
}

// PermittedRanges resolves the ordered open ranges for a date. An empty
// result means no shift can be scheduled that day.
func (c *HoursCalendar) PermittedRanges(date Date) []TimeRange {
	if ex, ok := c.exceptions[date.String()]; ok {
		if !ex.IsOpen {
			return nil
		}
		if len(ex.Ranges) == 0 {
			// Open exception without explicit hours: holiday default.
			return c.schedule.Day(HolidayIndex).Ranges
		}
		return ex.Ranges
	}

	day := c.schedule.Day(int(date.Weekday()))
	if !day.IsOpen {
		return nil
	}
	return day.Ranges
}

// IsDateOpen reports whether the date resolves to an open day. Note an open
// day may still have zero permitted ranges (the conservative default).
func (c *HoursCalendar) IsDateOpen(date Date) bool {
	if ex, ok := c.exceptions[date.String()]; ok {
		return ex.IsOpen
	}
	return c.schedule.Day(int(date.Weekday())).IsOpen
}

// IsWithinStoreHours reports whether [start, end) is fully contained within
// at least one permitted range on the date. Containment, not mere overlap: a
// shift may not span the closure gap between two ranges.
func (c *HoursCalendar) IsWithinStoreHours(date Date, start, end ClockTime) bool {
	for _, r := range c.PermittedRanges(date) {
		if r.Contains(start, end) {
			return true
		}
	}
	return false
}
