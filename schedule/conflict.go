/*
conflict.go - Shift overlap detection

PURPOSE:
  Tests a candidate interval against an employee's existing shifts on the
  same date. O(n) in shifts-per-employee-per-day, which is single digits in
  practice; no indexing structure needed.

SEE ALSO:
  - clock.go: Overlaps (half-open interval test)
  - validator.go: Consumes HasConflict as check #5
*/
package schedule

// HasConflict reports whether [start, end) overlaps any of the employee's
// existing shifts on the date. excludeID names the shift being edited, if
// any, so a shift never conflicts with itself.
func HasConflict(employeeID EmployeeID, date Date, start, end ClockTime, existing []Shift, excludeID ShiftID) bool {
	for _, s := range existing {
		if s.EmployeeID != employeeID || !s.Date.Equal(date) {
			continue
		}
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		if Overlaps(start, end, s.Start, s.End) {
			return true
		}
	}
	return false
}
