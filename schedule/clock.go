/*
Package schedule provides the core shift scheduling engine.

PURPOSE:
  This package contains the rules that decide whether a proposed shift may be
  created or edited: store opening hours (weekly calendar plus date-specific
  exceptions), approved employee absences, and overlap with existing shifts.
  A human proposes shifts; this engine only validates them.

KEY CONCEPTS IN THIS FILE (clock.go):
  - ClockTime: A wall-clock time of day as minutes since midnight (0-1439)
  - Date:      A calendar date with day granularity (no time-of-day)
  - Overlaps:  Half-open interval overlap test

DESIGN PRINCIPLES:
  1. Half-open intervals: a shift ending at 10:00 does not conflict with one
     starting at 10:00
  2. Same-day only: ClockTime never wraps past midnight; overnight shifts are
     rejected upstream by the validator
  3. Pure functions: no clock reads, no store access in this file

USAGE:
  start := schedule.MustClock("09:00")
  end := schedule.MustClock("17:30")
  schedule.Overlaps(start, end, schedule.MustClock("17:00"), schedule.MustClock("22:00")) // true

SEE ALSO:
  - hours.go: Store hours calendar built on TimeRange
  - conflict.go: Shift overlap detection built on Overlaps
  - validator.go: Parses candidate times with ParseClock
*/
package schedule

import (
	"fmt"
	"time"
)

// =============================================================================
// CLOCK TIME - Minutes since midnight
// =============================================================================

// ClockTime is a wall-clock time of day, stored as minutes since midnight.
// Valid values are 0 (00:00) through 1439 (23:59).
type ClockTime int

// ParseClock parses a strict "HH:MM" string into a ClockTime.
// Hours must be 00-23 and minutes 00-59; anything else is an error.
func ParseClock(s string) (ClockTime, error) {
	var hh, mm int
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hh, &mm); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hh < 0 || hh > 23 {
		return 0, fmt.Errorf("invalid time %q: hour out of range", s)
	}
	if mm < 0 || mm > 59 {
		return 0, fmt.Errorf("invalid time %q: minute out of range", s)
	}
	return ClockTime(hh*60 + mm), nil
}

// MustClock parses a "HH:MM" string or panics. For literals in seeds and tests.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) Minutes() int { return int(c) }
func (c ClockTime) Hour() int    { return int(c) / 60 }
func (c ClockTime) Minute() int  { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Half-open semantics: an interval ending exactly when another begins does
// not conflict. Symmetric in its two interval arguments.
func Overlaps(aStart, aEnd, bStart, bEnd ClockTime) bool {
	return aStart < bEnd && aEnd > bStart
}

// =============================================================================
// DATE - Calendar date, day granularity
// =============================================================================

// Date is a calendar date. The time-of-day portion is always midnight UTC;
// all comparisons are calendar-date comparisons.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// MustDate parses a "YYYY-MM-DD" string or panics. For literals in seeds and tests.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic and properties
func (d Date) AddDays(n int) Date    { return Date{Time: d.normalize().AddDate(0, 0, n)} }
func (d Date) Weekday() time.Weekday { return d.normalize().Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }
