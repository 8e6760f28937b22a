package db

import (
	"testing"
)

func TestUpsertScoreLastWriteWins(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	product := createTestProduct(t, db, "Widget")
	criterion := createTestCriterion(t, db, "C1", "Sales", 5, NatureBenefit)
	period := createTestPeriod(t, db, "Q1", 1000, true)

	first := &Score{
		ProductID:   product.ID,
		CriterionID: criterion.ID,
		PeriodID:    period.ID,
		Value:       10,
		EnteredBy:   strPtr("alice"),
	}
	if err := db.UpsertScore(first); err != nil {
		t.Fatalf("UpsertScore failed: %v", err)
	}

	// Re-submitting the same key replaces the value and attribution.
	second := &Score{
		ProductID:   product.ID,
		CriterionID: criterion.ID,
		PeriodID:    period.ID,
		Value:       25,
		EnteredBy:   strPtr("bob"),
	}
	if err := db.UpsertScore(second); err != nil {
		t.Fatalf("UpsertScore (second write) failed: %v", err)
	}

	value, ok, err := db.ScoreFor(product.ID, criterion.ID, period.ID)
	if err != nil {
		t.Fatalf("ScoreFor failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a recorded score")
	}
	if value != 25 {
		t.Errorf("expected last write to win, got %f", value)
	}

	scores, err := db.ScoresForPeriod(period.ID)
	if err != nil {
		t.Fatalf("ScoresForPeriod failed: %v", err)
	}
	if len(scores) != 1 {
		t.Errorf("expected exactly 1 score row for the triple, got %d", len(scores))
	}
}

func TestScoreForAbsentIsNotAnError(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	product := createTestProduct(t, db, "Widget")
	criterion := createTestCriterion(t, db, "C1", "Sales", 5, NatureBenefit)
	period := createTestPeriod(t, db, "Q1", 1000, true)

	value, ok, err := db.ScoreFor(product.ID, criterion.ID, period.ID)
	if err != nil {
		t.Fatalf("ScoreFor failed: %v", err)
	}
	if ok {
		t.Error("expected no score recorded")
	}
	if value != 0 {
		t.Errorf("expected zero value for absent score, got %f", value)
	}
}

func TestCriterionScores(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	p1 := createTestProduct(t, db, "A")
	p2 := createTestProduct(t, db, "B")
	criterion := createTestCriterion(t, db, "C1", "Sales", 5, NatureBenefit)
	other := createTestCriterion(t, db, "C2", "Cost", 3, NatureCost)
	period := createTestPeriod(t, db, "Q1", 1000, true)
	otherPeriod := createTestPeriod(t, db, "Q2", 2000, false)

	mustUpsertScore(t, db, p1.ID, criterion.ID, period.ID, 10)
	mustUpsertScore(t, db, p2.ID, criterion.ID, period.ID, 20)
	// Different criterion and different period must not leak in.
	mustUpsertScore(t, db, p1.ID, other.ID, period.ID, 99)
	mustUpsertScore(t, db, p1.ID, criterion.ID, otherPeriod.ID, 77)

	values, err := db.CriterionScores(criterion.ID, period.ID)
	if err != nil {
		t.Fatalf("CriterionScores failed: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d: %v", len(values), values)
	}
	sum := values[0] + values[1]
	if sum != 30 {
		t.Errorf("expected values summing to 30, got %v", values)
	}
}

func TestProductTotalsForCriterion(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	low := createTestProduct(t, db, "Low")
	high := createTestProduct(t, db, "High")
	createTestProduct(t, db, "Unscored")
	sales := createTestCriterion(t, db, "C1", "Sales", 5, NatureBenefit)
	q1 := createTestPeriod(t, db, "Q1", 1000, false)
	q2 := createTestPeriod(t, db, "Q2", 2000, true)

	mustUpsertScore(t, db, low.ID, sales.ID, q1.ID, 5)
	mustUpsertScore(t, db, high.ID, sales.ID, q1.ID, 50)
	mustUpsertScore(t, db, high.ID, sales.ID, q2.ID, 60)

	totals, err := db.ProductTotalsForCriterion("C1", 5)
	if err != nil {
		t.Fatalf("ProductTotalsForCriterion failed: %v", err)
	}
	if len(totals) != 3 {
		t.Fatalf("expected 3 totals, got %d", len(totals))
	}

	if totals[0].Name != "High" || totals[0].Total != 110 {
		t.Errorf("totals[0] = %+v, want High with 110", totals[0])
	}
	if totals[1].Name != "Low" || totals[1].Total != 5 {
		t.Errorf("totals[1] = %+v, want Low with 5", totals[1])
	}
	if totals[2].Name != "Unscored" || totals[2].Total != 0 {
		t.Errorf("totals[2] = %+v, want Unscored with 0", totals[2])
	}
}

func TestListCriteriaOrderedByCode(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	createTestCriterion(t, db, "C3", "Service", 2, NatureBenefit)
	createTestCriterion(t, db, "C1", "Sales", 5, NatureBenefit)
	createTestCriterion(t, db, "C2", "Cost", 3, NatureCost)

	criteria, err := db.ListCriteria()
	if err != nil {
		t.Fatalf("ListCriteria failed: %v", err)
	}

	want := []string{"C1", "C2", "C3"}
	if len(criteria) != len(want) {
		t.Fatalf("expected %d criteria, got %d", len(want), len(criteria))
	}
	for i, code := range want {
		if criteria[i].Code != code {
			t.Errorf("criteria[%d].Code = %q, want %q", i, criteria[i].Code, code)
		}
	}
}

func TestCreateCriterionValidation(t *testing.T) {
	db := setupTestDB(t)
	defer cleanupTestDB(t, db)

	tests := []struct {
		name      string
		criterion Criterion
		wantErr   bool
	}{
		{"valid benefit", Criterion{Code: "C1", Name: "Sales", Weight: 5, Nature: NatureBenefit}, false},
		{"valid cost", Criterion{Code: "C2", Name: "Price", Weight: 3, Nature: NatureCost}, false},
		{"zero weight allowed", Criterion{Code: "C3", Name: "Misc", Weight: 0, Nature: NatureBenefit}, false},
		{"negative weight", Criterion{Code: "C4", Name: "Bad", Weight: -1, Nature: NatureBenefit}, true},
		{"bad nature", Criterion{Code: "C5", Name: "Bad", Weight: 1, Nature: "neutral"}, true},
		{"missing code", Criterion{Name: "Bad", Weight: 1, Nature: NatureBenefit}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			criterion := tt.criterion
			err := db.CreateCriterion(&criterion)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateCriterion() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
