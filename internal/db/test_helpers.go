package db

import (
	"os"
	"testing"
)

// Helper functions for creating pointer values
func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	fname := t.Name() + ".db"
	_ = os.Remove(fname)

	db, err := NewDB(fname)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	return db
}

func cleanupTestDB(t *testing.T, db *DB) {
	t.Helper()
	fname := t.Name() + ".db"
	db.Close()
	_ = os.Remove(fname)
	_ = os.Remove(fname + "-shm")
	_ = os.Remove(fname + "-wal")
}

// createTestProduct inserts a product and fails the test on error.
func createTestProduct(t *testing.T, db *DB, name string) *Product {
	t.Helper()
	product := &Product{Name: name}
	if err := db.CreateProduct(product); err != nil {
		t.Fatalf("CreateProduct(%q) failed: %v", name, err)
	}
	return product
}

// createTestCriterion inserts a criterion and fails the test on error.
func createTestCriterion(t *testing.T, db *DB, code, name string, weight float64, nature string) *Criterion {
	t.Helper()
	criterion := &Criterion{
		Code:          code,
		Name:          name,
		Weight:        weight,
		Nature:        nature,
		UserEnterable: true,
	}
	if err := db.CreateCriterion(criterion); err != nil {
		t.Fatalf("CreateCriterion(%q) failed: %v", code, err)
	}
	return criterion
}

// createTestPeriod inserts a period and fails the test on error.
func createTestPeriod(t *testing.T, db *DB, name string, startUnix float64, active bool) *Period {
	t.Helper()
	period := &Period{
		Name:      name,
		StartUnix: startUnix,
		IsActive:  active,
	}
	if err := db.CreatePeriod(period); err != nil {
		t.Fatalf("CreatePeriod(%q) failed: %v", name, err)
	}
	return period
}

// mustUpsertScore records a score value and fails the test on error.
func mustUpsertScore(t *testing.T, db *DB, productID, criterionID, periodID int, value float64) {
	t.Helper()
	score := &Score{
		ProductID:   productID,
		CriterionID: criterionID,
		PeriodID:    periodID,
		Value:       value,
	}
	if err := db.UpsertScore(score); err != nil {
		t.Fatalf("UpsertScore failed: %v", err)
	}
}
