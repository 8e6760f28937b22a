package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Criterion natures. Benefit criteria rank higher values better, cost
// criteria rank lower values better.
const (
	NatureBenefit = "benefit"
	NatureCost    = "cost"
)

// Criterion is a column in the decision matrix.
type Criterion struct {
	ID            int       `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Weight        float64   `json:"weight"`
	Nature        string    `json:"nature"`
	UserEnterable bool      `json:"user_enterable"`
	CreatedAt     time.Time `json:"created_at"`
}

func validateCriterion(criterion *Criterion) error {
	if criterion.Code == "" {
		return fmt.Errorf("criterion code is required")
	}
	if criterion.Name == "" {
		return fmt.Errorf("criterion name is required")
	}
	if criterion.Weight < 0 {
		return fmt.Errorf("criterion weight must be non-negative, got %f", criterion.Weight)
	}
	if criterion.Nature != NatureBenefit && criterion.Nature != NatureCost {
		return fmt.Errorf("criterion nature must be %q or %q, got %q", NatureBenefit, NatureCost, criterion.Nature)
	}
	return nil
}

// CreateCriterion inserts a new criterion.
func (db *DB) CreateCriterion(criterion *Criterion) error {
	if err := validateCriterion(criterion); err != nil {
		return err
	}

	userEnterable := 0
	if criterion.UserEnterable {
		userEnterable = 1
	}

	result, err := db.DB.Exec(
		"INSERT INTO criteria (code, name, weight, nature, user_enterable) VALUES (?, ?, ?, ?, ?)",
		criterion.Code, criterion.Name, criterion.Weight, criterion.Nature, userEnterable,
	)
	if err != nil {
		return fmt.Errorf("failed to create criterion: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get criterion ID: %w", err)
	}
	criterion.ID = int(id)
	return nil
}

// ListCriteria returns all criteria sorted by code ascending. The decision
// matrix column order follows this sort.
func (db *DB) ListCriteria() ([]Criterion, error) {
	rows, err := db.Query(`
		SELECT id, code, name, weight, nature, user_enterable, created_at
		FROM criteria
		ORDER BY code ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query criteria: %w", err)
	}
	defer rows.Close()

	var criteria []Criterion
	for rows.Next() {
		var criterion Criterion
		var userEnterable int
		if err := rows.Scan(
			&criterion.ID,
			&criterion.Code,
			&criterion.Name,
			&criterion.Weight,
			&criterion.Nature,
			&userEnterable,
			&criterion.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan criterion: %w", err)
		}
		criterion.UserEnterable = userEnterable == 1
		criteria = append(criteria, criterion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating criteria: %w", err)
	}

	return criteria, nil
}

// GetCriterionByCode retrieves a single criterion by its unique code.
func (db *DB) GetCriterionByCode(code string) (*Criterion, error) {
	var criterion Criterion
	var userEnterable int
	err := db.DB.QueryRow(`
		SELECT id, code, name, weight, nature, user_enterable, created_at
		FROM criteria
		WHERE code = ?
	`, code).Scan(
		&criterion.ID,
		&criterion.Code,
		&criterion.Name,
		&criterion.Weight,
		&criterion.Nature,
		&userEnterable,
		&criterion.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("criterion %q not found", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get criterion: %w", err)
	}
	criterion.UserEnterable = userEnterable == 1
	return &criterion, nil
}
