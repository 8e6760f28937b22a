package db

import (
	"database/sql"
	"fmt"
	"time"
)

// RankReport records an exported ranking artifact on disk.
type RankReport struct {
	ID            int       `json:"id"`
	PeriodName    string    `json:"period_name"`
	Filepath      string    `json:"filepath"`       // directory the artifact was written to
	Filename      string    `json:"filename"`       // JSON artifact filename
	ChartFilename *string   `json:"chart_filename"` // optional rendered chart PNG
	RunID         string    `json:"run_id"`         // timestamp-based run ID
	CreatedAt     time.Time `json:"created_at"`
}

// CreateRankReport creates a new report record in the database.
func (db *DB) CreateRankReport(report *RankReport) error {
	result, err := db.DB.Exec(`
		INSERT INTO rank_reports (period_name, filepath, filename, chart_filename, run_id)
		VALUES (?, ?, ?, ?, ?)
	`, report.PeriodName, report.Filepath, report.Filename, report.ChartFilename, report.RunID)
	if err != nil {
		return fmt.Errorf("failed to create rank report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	report.ID = int(id)
	return nil
}

// GetRankReport retrieves a report by ID.
func (db *DB) GetRankReport(id int) (*RankReport, error) {
	var report RankReport
	err := db.DB.QueryRow(`
		SELECT id, period_name, filepath, filename, chart_filename, run_id, created_at
		FROM rank_reports
		WHERE id = ?
	`, id).Scan(
		&report.ID,
		&report.PeriodName,
		&report.Filepath,
		&report.Filename,
		&report.ChartFilename,
		&report.RunID,
		&report.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("report not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rank report: %w", err)
	}

	return &report, nil
}

// RecentRankReports retrieves the most recent N report records.
func (db *DB) RecentRankReports(limit int) ([]RankReport, error) {
	rows, err := db.DB.Query(`
		SELECT id, period_name, filepath, filename, chart_filename, run_id, created_at
		FROM rank_reports
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank reports: %w", err)
	}
	defer rows.Close()

	var reports []RankReport
	for rows.Next() {
		var report RankReport
		if err := rows.Scan(
			&report.ID,
			&report.PeriodName,
			&report.Filepath,
			&report.Filename,
			&report.ChartFilename,
			&report.RunID,
			&report.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rank report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// DeleteRankReport deletes a report record by ID.
func (db *DB) DeleteRankReport(id int) error {
	result, err := db.DB.Exec("DELETE FROM rank_reports WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rank report: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("report not found")
	}

	return nil
}
