package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Score is a (product, criterion, period) value triple. The combination is
// unique; UpsertScore makes the last write for the same key win.
type Score struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"product_id"`
	CriterionID int       `json:"criterion_id"`
	PeriodID    int       `json:"period_id"`
	Value       float64   `json:"value"`
	EnteredBy   *string   `json:"entered_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PeriodScore is one score row joined with its product and criterion
// identities, as returned by ScoresForPeriod.
type PeriodScore struct {
	ProductID   int     `json:"product_id"`
	CriterionID int     `json:"criterion_id"`
	Value       float64 `json:"value"`
}

// ProductTotal is a product's summed score on a single criterion across all
// periods.
type ProductTotal struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Total     float64 `json:"total"`
}

// UpsertScore inserts or replaces the score for the (product, criterion,
// period) key. The write is idempotent: re-submitting the same key updates
// the value, attribution and timestamp in place.
func (db *DB) UpsertScore(score *Score) error {
	result, err := db.DB.Exec(`
		INSERT INTO scores (product_id, criterion_id, period_id, value, entered_by)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(product_id, criterion_id, period_id) DO UPDATE SET
			value = excluded.value,
			entered_by = excluded.entered_by,
			updated_at = CURRENT_TIMESTAMP
	`, score.ProductID, score.CriterionID, score.PeriodID, score.Value, score.EnteredBy)
	if err != nil {
		return fmt.Errorf("failed to upsert score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get score ID: %w", err)
	}
	score.ID = int(id)
	return nil
}

// ScoreFor returns the score value for the given triple. The second return
// is false when no score is recorded; absence is not an error.
func (db *DB) ScoreFor(productID, criterionID, periodID int) (float64, bool, error) {
	var value float64
	err := db.DB.QueryRow(`
		SELECT value FROM scores
		WHERE product_id = ? AND criterion_id = ? AND period_id = ?
	`, productID, criterionID, periodID).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get score: %w", err)
	}
	return value, true, nil
}

// ScoresForPeriod returns every score recorded in the period. The decision
// matrix builder fills unlisted cells with 0.
func (db *DB) ScoresForPeriod(periodID int) ([]PeriodScore, error) {
	rows, err := db.Query(`
		SELECT product_id, criterion_id, value
		FROM scores
		WHERE period_id = ?
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query period scores: %w", err)
	}
	defer rows.Close()

	var scores []PeriodScore
	for rows.Next() {
		var score PeriodScore
		if err := rows.Scan(&score.ProductID, &score.CriterionID, &score.Value); err != nil {
			return nil, fmt.Errorf("failed to scan period score: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period scores: %w", err)
	}

	return scores, nil
}

// CriterionScores returns all score values recorded for a criterion in a
// period, used for the per-criterion statistical summaries.
func (db *DB) CriterionScores(criterionID, periodID int) ([]float64, error) {
	rows, err := db.Query(`
		SELECT value FROM scores
		WHERE criterion_id = ? AND period_id = ?
	`, criterionID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query criterion scores: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var value float64
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan criterion score: %w", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating criterion scores: %w", err)
	}

	return values, nil
}

// ProductTotalsForCriterion returns products ranked by their total score on
// the named criterion summed across all periods, highest first. Products with
// no scores on the criterion total 0.
func (db *DB) ProductTotalsForCriterion(criterionCode string, limit int) ([]ProductTotal, error) {
	rows, err := db.Query(`
		SELECT p.id, p.name, COALESCE(SUM(s.value), 0) AS total
		FROM products p
		LEFT JOIN scores s ON s.product_id = p.id
			AND s.criterion_id = (SELECT id FROM criteria WHERE code = ?)
		GROUP BY p.id, p.name
		ORDER BY total DESC
		LIMIT ?
	`, criterionCode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query product totals: %w", err)
	}
	defer rows.Close()

	var totals []ProductTotal
	for rows.Next() {
		var total ProductTotal
		if err := rows.Scan(&total.ProductID, &total.Name, &total.Total); err != nil {
			return nil, fmt.Errorf("failed to scan product total: %w", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product totals: %w", err)
	}

	return totals, nil
}
