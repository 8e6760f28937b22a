package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Period is a scoring window. Ranking computations are always scoped to
// exactly one period.
type Period struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	StartUnix float64   `json:"start_unix"`
	EndUnix   *float64  `json:"end_unix"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func validatePeriod(period *Period) error {
	if period.Name == "" {
		return fmt.Errorf("period name is required")
	}
	if period.StartUnix < 0 {
		return fmt.Errorf("start_unix must be non-negative")
	}
	if period.EndUnix != nil && *period.EndUnix <= period.StartUnix {
		return fmt.Errorf("end_unix must be greater than start_unix")
	}
	return nil
}

// CreatePeriod inserts a new period.
func (db *DB) CreatePeriod(period *Period) error {
	if err := validatePeriod(period); err != nil {
		return err
	}

	isActive := 0
	if period.IsActive {
		isActive = 1
	}

	result, err := db.DB.Exec(
		"INSERT INTO periods (name, start_unix, end_unix, is_active) VALUES (?, ?, ?, ?)",
		period.Name, period.StartUnix, period.EndUnix, isActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create period: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get period ID: %w", err)
	}
	period.ID = int(id)
	return nil
}

// ListPeriods returns all periods sorted by start date descending (most
// recent first).
func (db *DB) ListPeriods() ([]Period, error) {
	rows, err := db.Query(`
		SELECT id, name, start_unix, end_unix, is_active, created_at
		FROM periods
		ORDER BY start_unix DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	return scanPeriods(rows)
}

// ActivePeriods returns all periods flagged active, most recent first.
func (db *DB) ActivePeriods() ([]Period, error) {
	rows, err := db.Query(`
		SELECT id, name, start_unix, end_unix, is_active, created_at
		FROM periods
		WHERE is_active = 1
		ORDER BY start_unix DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active periods: %w", err)
	}
	defer rows.Close()

	return scanPeriods(rows)
}

// GetPeriod retrieves a single period by ID.
func (db *DB) GetPeriod(id int) (*Period, error) {
	row := db.DB.QueryRow(`
		SELECT id, name, start_unix, end_unix, is_active, created_at
		FROM periods
		WHERE id = ?
	`, id)

	period, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("period not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	return period, nil
}

// LatestActivePeriod returns the most recently started period among those
// flagged active, or (nil, nil) when no period is active. Uniqueness of the
// active flag is not enforced; first match by start date wins.
func (db *DB) LatestActivePeriod() (*Period, error) {
	row := db.DB.QueryRow(`
		SELECT id, name, start_unix, end_unix, is_active, created_at
		FROM periods
		WHERE is_active = 1
		ORDER BY start_unix DESC
		LIMIT 1
	`)

	period, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active period: %w", err)
	}
	return period, nil
}

// PreviousPeriod returns the period with the latest start date strictly
// before the given period's start, or (nil, nil) when none exists.
func (db *DB) PreviousPeriod(period *Period) (*Period, error) {
	row := db.DB.QueryRow(`
		SELECT id, name, start_unix, end_unix, is_active, created_at
		FROM periods
		WHERE start_unix < ?
		ORDER BY start_unix DESC
		LIMIT 1
	`, period.StartUnix)

	previous, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get previous period: %w", err)
	}
	return previous, nil
}

// RecentPeriods returns the most recent N periods in oldest-to-newest order,
// the shape the time-series analytics charts expect.
func (db *DB) RecentPeriods(limit int) ([]Period, error) {
	rows, err := db.Query(`
		SELECT id, name, start_unix, end_unix, is_active, created_at
		FROM periods
		ORDER BY start_unix DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent periods: %w", err)
	}
	defer rows.Close()

	periods, err := scanPeriods(rows)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(periods)-1; i < j; i, j = i+1, j-1 {
		periods[i], periods[j] = periods[j], periods[i]
	}
	return periods, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPeriod(row rowScanner) (*Period, error) {
	var period Period
	var endUnix sql.NullFloat64
	var isActive int
	if err := row.Scan(
		&period.ID,
		&period.Name,
		&period.StartUnix,
		&endUnix,
		&isActive,
		&period.CreatedAt,
	); err != nil {
		return nil, err
	}
	if endUnix.Valid {
		value := endUnix.Float64
		period.EndUnix = &value
	}
	period.IsActive = isActive == 1
	return &period, nil
}

func scanPeriods(rows *sql.Rows) ([]Period, error) {
	var periods []Period
	for rows.Next() {
		period, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating periods: %w", err)
	}
	return periods, nil
}
