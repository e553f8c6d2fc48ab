/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements schedule.ShiftStore plus the directory tables the API serves
  (locations, employees, templates, store hours, exceptions, vacations).
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

CONSISTENCY:
  The write paths uphold the store contract the engine relies on:
  - CreateShift/UpdateShift re-check employee/day overlap inside the write
    transaction, returning schedule.ErrOverlapOnWrite on a hit. This is the
    backstop for the validate-then-write race between callers.
  - UpdateShift uses an optimistic version column:
    UPDATE ... WHERE id=? AND version=? - zero rows affected with an
    existing row means schedule.ErrVersionConflict.

KEY TABLES:
  shifts:            One row per scheduled shift, versioned
  store_hours:       Weekly entries, day_index 0-6 plus 7 (holiday default)
  store_exceptions:  Date-keyed overrides
  templates:         Blueprint lists as JSON
  vacation_requests: Read model consumed by the vacation oracle
  locations, employees: Directories

LEGACY COLUMNS:
  store_hours keeps the legacy open_time/close_time columns older deployments
  wrote. They are folded into ranges_json by NormalizeLegacyDay at load time,
  never on the query path.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

SUBSCRIPTION:
  Subscribe callbacks fire in-process after every successful mutation. A
  multi-process deployment would replace this with a change feed; the engine
  only needs "something changed, refresh".

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - schedule/store.go: Interface definitions and contract
  - schedule/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/schedule"
)

// Store implements schedule.ShiftStore and the directory tables using SQLite.
type Store struct {
	db *sql.DB

	mu          sync.Mutex // serializes writes; SQLite allows one writer
	subMu       sync.Mutex
	subscribers []func()
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		name TEXT NOT NULL,
		weekly_hour_cap INTEGER DEFAULT 0,
		monthly_hour_cap INTEGER DEFAULT 0,
		unavailable_json TEXT,
		active BOOLEAN DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_location
		ON employees(location_id);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		hours TEXT NOT NULL,
		published BOOLEAN DEFAULT FALSE,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: overlap re-check on write, per-day queries
	CREATE INDEX IF NOT EXISTS idx_shifts_employee_date
		ON shifts(employee_id, date);
	CREATE INDEX IF NOT EXISTS idx_shifts_location_date
		ON shifts(location_id, date);

	-- Weekly entries 0-6 plus holiday default 7. open_time/close_time are
	-- legacy single-range columns, normalized into ranges_json at load.
	CREATE TABLE IF NOT EXISTS store_hours (
		location_id TEXT NOT NULL,
		day_index INTEGER NOT NULL,
		is_open BOOLEAN DEFAULT FALSE,
		ranges_json TEXT,
		open_time TEXT,
		close_time TEXT,
		PRIMARY KEY (location_id, day_index)
	);

	CREATE TABLE IF NOT EXISTS store_exceptions (
		location_id TEXT NOT NULL,
		date TEXT NOT NULL,
		is_open BOOLEAN DEFAULT FALSE,
		ranges_json TEXT,
		PRIMARY KEY (location_id, date)
	);

	CREATE TABLE IF NOT EXISTS templates (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		name TEXT NOT NULL,
		blueprints_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_templates_location
		ON templates(location_id);

	CREATE TABLE IF NOT EXISTS vacation_requests (
		id TEXT PRIMARY KEY,
		location_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_vacations_location
		ON vacation_requests(location_id);
	CREATE INDEX IF NOT EXISTS idx_vacations_employee
		ON vacation_requests(employee_id);
	`
	_, err := s.db.Exec(schemaSQL)
	return err
}

// =============================================================================
// JSON COLUMN SHAPES
// =============================================================================

type rangeJSON struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type windowJSON struct {
	Weekday int    `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type blueprintJSON struct {
	EmployeeID string `json:"employee_id"`
	DayOffset  int    `json:"day_offset"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

func marshalRanges(ranges []schedule.TimeRange) string {
	out := make([]rangeJSON, len(ranges))
	for i, r := range ranges {
		out[i] = rangeJSON{Open: r.Open.String(), Close: r.Close.String()}
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func unmarshalRanges(raw sql.NullString) ([]schedule.TimeRange, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var rows []rangeJSON
	if err := json.Unmarshal([]byte(raw.String), &rows); err != nil {
		return nil, err
	}
	out := make([]schedule.TimeRange, len(rows))
	for i, r := range rows {
		open, err := schedule.ParseClock(r.Open)
		if err != nil {
			return nil, err
		}
		end, err := schedule.ParseClock(r.Close)
		if err != nil {
			return nil, err
		}
		out[i] = schedule.TimeRange{Open: open, Close: end}
	}
	return out, nil
}

// =============================================================================
// SHIFT WRITES (schedule.ShiftStore)
// =============================================================================

// CreateShift inserts a shift after re-checking overlap inside the write
// transaction.
func (s *Store) CreateShift(ctx context.Context, shift schedule.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	overlaps, err := overlapExists(ctx, tx, shift, "")
	if err != nil {
		return err
	}
	if overlaps {
		return schedule.ErrOverlapOnWrite
	}

	if shift.Version == 0 {
		shift.Version = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO shifts
		(id, location_id, employee_id, date, start_time, end_time, hours, published, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shift.ID,
		shift.LocationID,
		shift.EmployeeID,
		shift.Date.String(),
		shift.Start.String(),
		shift.End.String(),
		shift.Hours.String(),
		shift.Published,
		shift.Version,
		shift.CreatedAt.UTC().Format(time.RFC3339),
		shift.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert shift: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shift: %w", err)
	}

	s.notify()
	return nil
}

// UpdateShift replaces a shift's mutable fields with an optimistic version
// check and the same in-transaction overlap re-check as CreateShift.
func (s *Store) UpdateShift(ctx context.Context, shift schedule.Shift, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	overlaps, err := overlapExists(ctx, tx, shift, shift.ID)
	if err != nil {
		return err
	}
	if overlaps {
		return schedule.ErrOverlapOnWrite
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE shifts
		SET employee_id = ?, date = ?, start_time = ?, end_time = ?, hours = ?,
		    published = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		shift.EmployeeID,
		shift.Date.String(),
		shift.Start.String(),
		shift.End.String(),
		shift.Hours.String(),
		shift.Published,
		time.Now().UTC().Format(time.RFC3339),
		shift.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM shifts WHERE id = ?)`, shift.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check shift existence: %w", err)
		}
		if exists {
			return schedule.ErrVersionConflict
		}
		return schedule.ErrShiftNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shift update: %w", err)
	}

	s.notify()
	return nil
}

func overlapExists(ctx context.Context, tx *sql.Tx, shift schedule.Shift, excludeID schedule.ShiftID) (bool, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, start_time, end_time FROM shifts
		WHERE employee_id = ? AND date = ?`,
		shift.EmployeeID, shift.Date.String())
	if err != nil {
		return false, fmt.Errorf("failed to load shifts for overlap check: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, startRaw, endRaw string
		if err := rows.Scan(&id, &startRaw, &endRaw); err != nil {
			return false, err
		}
		if excludeID != "" && schedule.ShiftID(id) == excludeID {
			continue
		}
		start, err := schedule.ParseClock(startRaw)
		if err != nil {
			return false, err
		}
		end, err := schedule.ParseClock(endRaw)
		if err != nil {
			return false, err
		}
		if schedule.Overlaps(shift.Start, shift.End, start, end) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// DeleteShift removes a shift.
func (s *Store) DeleteShift(ctx context.Context, id schedule.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return schedule.ErrShiftNotFound
	}

	s.notify()
	return nil
}

// PublishShifts marks the given shifts published. Unknown IDs are skipped.
func (s *Store) PublishShifts(ctx context.Context, ids []schedule.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, `
			UPDATE shifts SET published = TRUE, version = version + 1, updated_at = ?
			WHERE id = ?`, now, id); err != nil {
			return fmt.Errorf("failed to publish shift %s: %w", id, err)
		}
	}

	s.notify()
	return nil
}

// =============================================================================
// SHIFT READS (schedule.SnapshotSource)
// =============================================================================

func (s *Store) ShiftsByLocation(ctx context.Context, locationID schedule.LocationID) ([]schedule.Shift, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, employee_id, date, start_time, end_time, hours, published, version, created_at, updated_at
		FROM shifts WHERE location_id = ?
		ORDER BY date, start_time`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shifts: %w", err)
	}
	defer rows.Close()

	var out []schedule.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, shift)
	}
	return out, rows.Err()
}

func scanShift(rows *sql.Rows) (schedule.Shift, error) {
	var (
		shift                            schedule.Shift
		dateRaw, startRaw, endRaw        string
		hoursRaw, createdRaw, updatedRaw string
	)
	if err := rows.Scan(&shift.ID, &shift.LocationID, &shift.EmployeeID, &dateRaw,
		&startRaw, &endRaw, &hoursRaw, &shift.Published, &shift.Version, &createdRaw, &updatedRaw); err != nil {
		return schedule.Shift{}, err
	}

	var err error
	if shift.Date, err = schedule.ParseDate(dateRaw); err != nil {
		return schedule.Shift{}, err
	}
	if shift.Start, err = schedule.ParseClock(startRaw); err != nil {
		return schedule.Shift{}, err
	}
	if shift.End, err = schedule.ParseClock(endRaw); err != nil {
		return schedule.Shift{}, err
	}
	if shift.Hours, err = decimal.NewFromString(hoursRaw); err != nil {
		return schedule.Shift{}, err
	}
	shift.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
	shift.UpdatedAt, _ = time.Parse(time.RFC3339, updatedRaw)
	return shift, nil
}

// WeeklyScheduleByLocation loads the weekly entries, folding legacy
// open_time/close_time columns into ranges once here.
func (s *Store) WeeklyScheduleByLocation(ctx context.Context, locationID schedule.LocationID) (*schedule.WeeklySchedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day_index, is_open, ranges_json, open_time, close_time
		FROM store_hours WHERE location_id = ?`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store hours: %w", err)
	}
	defer rows.Close()

	days := make(map[int]schedule.DayHours)
	for rows.Next() {
		var (
			idx                     int
			isOpen                  bool
			rangesRaw               sql.NullString
			legacyOpen, legacyClose sql.NullString
		)
		if err := rows.Scan(&idx, &isOpen, &rangesRaw, &legacyOpen, &legacyClose); err != nil {
			return nil, err
		}
		ranges, err := unmarshalRanges(rangesRaw)
		if err != nil {
			return nil, fmt.Errorf("store hours day %d: %w", idx, err)
		}
		day, err := schedule.NormalizeLegacyDay(isOpen, legacyOpen.String, legacyClose.String, ranges)
		if err != nil {
			return nil, fmt.Errorf("store hours day %d: %w", idx, err)
		}
		days[idx] = day
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return schedule.NewWeeklySchedule(days)
}

func (s *Store) ExceptionsByLocation(ctx context.Context, locationID schedule.LocationID) ([]schedule.StoreException, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, is_open, ranges_json FROM store_exceptions
		WHERE location_id = ? ORDER BY date`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exceptions: %w", err)
	}
	defer rows.Close()

	var out []schedule.StoreException
	for rows.Next() {
		var (
			dateRaw   string
			isOpen    bool
			rangesRaw sql.NullString
		)
		if err := rows.Scan(&dateRaw, &isOpen, &rangesRaw); err != nil {
			return nil, err
		}
		date, err := schedule.ParseDate(dateRaw)
		if err != nil {
			return nil, err
		}
		ranges, err := unmarshalRanges(rangesRaw)
		if err != nil {
			return nil, err
		}
		out = append(out, schedule.StoreException{Date: date, IsOpen: isOpen, Ranges: ranges})
	}
	return out, rows.Err()
}

func (s *Store) VacationsByLocation(ctx context.Context, locationID schedule.LocationID) ([]schedule.VacationRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, start_date, end_date, status
		FROM vacation_requests WHERE location_id = ?`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vacations: %w", err)
	}
	defer rows.Close()

	var out []schedule.VacationRequest
	for rows.Next() {
		var (
			v                        schedule.VacationRequest
			startRaw, endRaw, status string
		)
		if err := rows.Scan(&v.ID, &v.EmployeeID, &startRaw, &endRaw, &status); err != nil {
			return nil, err
		}
		if v.StartDate, err = schedule.ParseDate(startRaw); err != nil {
			return nil, err
		}
		if v.EndDate, err = schedule.ParseDate(endRaw); err != nil {
			return nil, err
		}
		v.Status = schedule.VacationStatus(status)
		out = append(out, v)
	}
	return out, rows.Err()
}

// =============================================================================
// TEMPLATES
// =============================================================================

func (s *Store) TemplateByID(ctx context.Context, id schedule.TemplateID) (*schedule.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, location_id, name, blueprints_json, created_at
		FROM templates WHERE id = ?`, id)

	var (
		t          schedule.Template
		bpRaw      string
		createdRaw string
	)
	if err := row.Scan(&t.ID, &t.LocationID, &t.Name, &bpRaw, &createdRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, schedule.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	var bps []blueprintJSON
	if err := json.Unmarshal([]byte(bpRaw), &bps); err != nil {
		return nil, fmt.Errorf("template %s blueprints: %w", id, err)
	}
	for _, bp := range bps {
		t.Blueprints = append(t.Blueprints, schedule.Blueprint{
			EmployeeID: schedule.EmployeeID(bp.EmployeeID),
			DayOffset:  bp.DayOffset,
			Start:      bp.Start,
			End:        bp.End,
		})
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
	return &t, nil
}

// SaveTemplate inserts or replaces a template.
func (s *Store) SaveTemplate(ctx context.Context, t schedule.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bps := make([]blueprintJSON, len(t.Blueprints))
	for i, bp := range t.Blueprints {
		bps[i] = blueprintJSON{
			EmployeeID: string(bp.EmployeeID),
			DayOffset:  bp.DayOffset,
			Start:      bp.Start,
			End:        bp.End,
		}
	}
	raw, _ := json.Marshal(bps)

	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO templates (id, location_id, name, blueprints_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.LocationID, t.Name, string(raw), created.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	s.notify()
	return nil
}

// ListTemplates returns all templates for a location.
func (s *Store) ListTemplates(ctx context.Context, locationID schedule.LocationID) ([]schedule.Template, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM templates WHERE location_id = ? ORDER BY name`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var ids []schedule.TemplateID
	for rows.Next() {
		var id schedule.TemplateID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []schedule.Template
	for _, id := range ids {
		t, err := s.TemplateByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

// =============================================================================
// STORE HOURS AND EXCEPTION WRITES
// =============================================================================

// SaveWeeklySchedule replaces all weekly entries for a location. Writes the
// normalized ranges_json representation; legacy columns are left NULL.
func (s *Store) SaveWeeklySchedule(ctx context.Context, locationID schedule.LocationID, days map[int]schedule.DayHours) error {
	// Reject overlapping ranges before touching rows.
	if _, err := schedule.NewWeeklySchedule(days); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM store_hours WHERE location_id = ?`, locationID); err != nil {
		return fmt.Errorf("failed to clear store hours: %w", err)
	}
	for idx, day := range days {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO store_hours (location_id, day_index, is_open, ranges_json)
			VALUES (?, ?, ?, ?)`,
			locationID, idx, day.IsOpen, marshalRanges(day.Ranges)); err != nil {
			return fmt.Errorf("failed to save store hours day %d: %w", idx, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit store hours: %w", err)
	}

	s.notify()
	return nil
}

// SaveException inserts or replaces a date-keyed override.
func (s *Store) SaveException(ctx context.Context, locationID schedule.LocationID, ex schedule.StoreException) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO store_exceptions (location_id, date, is_open, ranges_json)
		VALUES (?, ?, ?, ?)`,
		locationID, ex.Date.String(), ex.IsOpen, marshalRanges(ex.Ranges))
	if err != nil {
		return fmt.Errorf("failed to save exception: %w", err)
	}

	s.notify()
	return nil
}

// DeleteException removes a date-keyed override.
func (s *Store) DeleteException(ctx context.Context, locationID schedule.LocationID, date schedule.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM store_exceptions WHERE location_id = ? AND date = ?`,
		locationID, date.String())
	if err != nil {
		return fmt.Errorf("failed to delete exception: %w", err)
	}

	s.notify()
	return nil
}

// =============================================================================
// VACATIONS - Read model, written by seeding and the vacation workflow
// =============================================================================

// SaveVacation inserts or replaces a vacation request row.
func (s *Store) SaveVacation(ctx context.Context, locationID schedule.LocationID, v schedule.VacationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO vacation_requests (id, location_id, employee_id, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, locationID, v.EmployeeID, v.StartDate.String(), v.EndDate.String(), v.Status)
	if err != nil {
		return fmt.Errorf("failed to save vacation: %w", err)
	}

	s.notify()
	return nil
}

// =============================================================================
// DIRECTORIES - Locations and employees
// =============================================================================

// Location is a store directory row.
type Location struct {
	ID        schedule.LocationID
	Name      string
	CreatedAt time.Time
}

func (s *Store) SaveLocation(ctx context.Context, loc Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := loc.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO locations (id, name, created_at) VALUES (?, ?, ?)`,
		loc.ID, loc.Name, created.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}

	s.notify()
	return nil
}

func (s *Store) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var (
			loc        Location
			createdRaw string
		)
		if err := rows.Scan(&loc.ID, &loc.Name, &createdRaw); err != nil {
			return nil, err
		}
		loc.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
		out = append(out, loc)
	}
	return out, rows.Err()
}

func (s *Store) GetLocation(ctx context.Context, id schedule.LocationID) (*Location, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM locations WHERE id = ?`, id)
	var (
		loc        Location
		createdRaw string
	)
	if err := row.Scan(&loc.ID, &loc.Name, &createdRaw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	loc.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
	return &loc, nil
}

func (s *Store) SaveEmployee(ctx context.Context, emp schedule.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows := make([]windowJSON, len(emp.Unavailable))
	for i, w := range emp.Unavailable {
		windows[i] = windowJSON{Weekday: int(w.Weekday), Start: w.Start.String(), End: w.End.String()}
	}
	raw, _ := json.Marshal(windows)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees
		(id, location_id, name, weekly_hour_cap, monthly_hour_cap, unavailable_json, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		emp.ID, emp.LocationID, emp.Name, emp.WeeklyHourCap, emp.MonthlyHourCap,
		string(raw), emp.Active, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}

	s.notify()
	return nil
}

func (s *Store) ListEmployees(ctx context.Context, locationID schedule.LocationID) ([]schedule.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, name, weekly_hour_cap, monthly_hour_cap, unavailable_json, active
		FROM employees WHERE location_id = ? ORDER BY name`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []schedule.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id schedule.EmployeeID) (*schedule.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_id, name, weekly_hour_cap, monthly_hour_cap, unavailable_json, active
		FROM employees WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	emp, err := scanEmployee(rows)
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func scanEmployee(rows *sql.Rows) (schedule.Employee, error) {
	var (
		emp     schedule.Employee
		windRaw sql.NullString
	)
	if err := rows.Scan(&emp.ID, &emp.LocationID, &emp.Name,
		&emp.WeeklyHourCap, &emp.MonthlyHourCap, &windRaw, &emp.Active); err != nil {
		return schedule.Employee{}, err
	}
	if windRaw.Valid && windRaw.String != "" {
		var windows []windowJSON
		if err := json.Unmarshal([]byte(windRaw.String), &windows); err != nil {
			return schedule.Employee{}, err
		}
		for _, w := range windows {
			start, err := schedule.ParseClock(w.Start)
			if err != nil {
				return schedule.Employee{}, err
			}
			end, err := schedule.ParseClock(w.End)
			if err != nil {
				return schedule.Employee{}, err
			}
			emp.Unavailable = append(emp.Unavailable, schedule.UnavailableWindow{
				Weekday: time.Weekday(w.Weekday), Start: start, End: end,
			})
		}
	}
	return emp, nil
}

// =============================================================================
// SUBSCRIPTION AND RESET
// =============================================================================

// Subscribe registers fn to run after every successful mutation.
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Reset wipes every table. Used by the demo scenario loader; dev only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{
		"shifts", "store_hours", "store_exceptions", "templates",
		"vacation_requests", "employees", "locations",
	} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}

	s.notify()
	return nil
}
