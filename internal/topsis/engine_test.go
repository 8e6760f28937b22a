package topsis

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arbor-data/preference.rank/internal/db"
	"github.com/arbor-data/preference.rank/internal/monitoring"
)

func setupTestStore(t *testing.T) *db.DB {
	t.Helper()
	fname := t.Name() + ".db"
	_ = os.Remove(fname)

	database, err := db.NewDB(fname)
	if err != nil {
		t.Fatalf("failed to create test DB: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
		_ = os.Remove(fname)
		_ = os.Remove(fname + "-shm")
		_ = os.Remove(fname + "-wal")
	})
	return database
}

// seedScenario populates products, two criteria (benefit weight 5, cost
// weight 3) and per-product scores for an active period.
func seedScenario(t *testing.T, database *db.DB, productNames []string, scores [][]float64) *db.Period {
	t.Helper()

	benefit := &db.Criterion{Code: "C1", Name: "Sales", Weight: 5, Nature: db.NatureBenefit, UserEnterable: true}
	if err := database.CreateCriterion(benefit); err != nil {
		t.Fatalf("CreateCriterion failed: %v", err)
	}
	cost := &db.Criterion{Code: "C2", Name: "Return Rate", Weight: 3, Nature: db.NatureCost, UserEnterable: true}
	if err := database.CreateCriterion(cost); err != nil {
		t.Fatalf("CreateCriterion failed: %v", err)
	}

	period := &db.Period{Name: "Q1 2025", StartUnix: 1000, IsActive: true}
	if err := database.CreatePeriod(period); err != nil {
		t.Fatalf("CreatePeriod failed: %v", err)
	}

	for i, name := range productNames {
		product := &db.Product{Name: name}
		if err := database.CreateProduct(product); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		for j, criterion := range []*db.Criterion{benefit, cost} {
			if scores == nil {
				continue
			}
			score := &db.Score{
				ProductID:   product.ID,
				CriterionID: criterion.ID,
				PeriodID:    period.ID,
				Value:       scores[i][j],
			}
			if err := database.UpsertScore(score); err != nil {
				t.Fatalf("UpsertScore failed: %v", err)
			}
		}
	}

	return period
}

func TestRankingScenarioBenefitAndCost(t *testing.T) {
	database := setupTestStore(t)

	// Row 0 has the highest benefit score and the lowest cost score, so it
	// must rank first regardless of the weights.
	seedScenario(t, database, []string{"Alpha", "Beta", "Gamma"}, [][]float64{
		{10, 2},
		{5, 5},
		{8, 1},
	})

	ranking := Ranking(database, nil)
	if len(ranking) != 3 {
		t.Fatalf("expected a full ranking of 3 products, got %d", len(ranking))
	}

	if ranking[0].Product != "Alpha" {
		t.Errorf("expected Alpha to rank first, got %q", ranking[0].Product)
	}

	seenRanks := map[int]bool{}
	for _, entry := range ranking {
		if entry.Score < 0 || entry.Score > 1 {
			t.Errorf("preference score out of [0,1]: %+v", entry)
		}
		if entry.Period != "Q1 2025" {
			t.Errorf("unexpected period name: %q", entry.Period)
		}
		seenRanks[entry.Rank] = true
	}

	// Ranks form a dense permutation 1..N.
	for rank := 1; rank <= 3; rank++ {
		if !seenRanks[rank] {
			t.Errorf("missing rank %d in %v", rank, seenRanks)
		}
	}
}

func TestRankingScoresDescendByRank(t *testing.T) {
	database := setupTestStore(t)
	seedScenario(t, database, []string{"A", "B", "C", "D"}, [][]float64{
		{1, 9},
		{7, 3},
		{4, 4},
		{9, 1},
	})

	ranking := Ranking(database, nil)
	for i := 1; i < len(ranking); i++ {
		if ranking[i].Score > ranking[i-1].Score {
			t.Errorf("scores not descending at rank %d: %f > %f", i+1, ranking[i].Score, ranking[i-1].Score)
		}
		if ranking[i].Rank != ranking[i-1].Rank+1 {
			t.Errorf("ranks not dense: %d after %d", ranking[i].Rank, ranking[i-1].Rank)
		}
	}
}

func TestRankingDeterministic(t *testing.T) {
	database := setupTestStore(t)
	seedScenario(t, database, []string{"A", "B", "C"}, [][]float64{
		{10, 2},
		{5, 5},
		{8, 1},
	})

	first := Ranking(database, nil)
	second := Ranking(database, nil)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated ranking differs (-first +second):\n%s", diff)
	}
}

func TestRankingAllZeroScoresTieOnInputOrder(t *testing.T) {
	database := setupTestStore(t)

	// A period with no recorded scores yields an all-zero matrix; every
	// preference score collapses to the same value and the ordering is
	// governed purely by sort stability on product insertion order.
	seedScenario(t, database, []string{"First", "Second", "Third"}, nil)

	ranking := Ranking(database, nil)
	if len(ranking) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ranking))
	}

	for i := 1; i < len(ranking); i++ {
		if diff := ranking[i].Score - ranking[0].Score; diff > epsilon || diff < -epsilon {
			t.Errorf("expected effectively tied scores, got %f vs %f", ranking[i].Score, ranking[0].Score)
		}
	}

	want := []string{"First", "Second", "Third"}
	for i, name := range want {
		if ranking[i].Product != name {
			t.Errorf("ranking[%d] = %q, want %q (input order tie-break)", i, ranking[i].Product, name)
		}
	}
}

func TestRankingNoActivePeriodDegradesToEmpty(t *testing.T) {
	database := setupTestStore(t)

	var logged []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, v...))
	})
	defer monitoring.SetLogger(nil)

	ranking := Ranking(database, nil)
	if len(ranking) != 0 {
		t.Errorf("expected empty ranking, got %v", ranking)
	}

	// The degrade-to-empty policy requires a diagnostic event.
	if len(logged) == 0 {
		t.Fatal("expected a diagnostic log entry for the suppressed error")
	}
	if !strings.Contains(logged[0], "no active period") {
		t.Errorf("diagnostic does not name the error kind: %q", logged[0])
	}
}

type failingStore struct {
	Store
}

func (failingStore) LatestActivePeriod() (*db.Period, error) {
	return &db.Period{ID: 1, Name: "P"}, nil
}

func (failingStore) ListProducts() ([]db.Product, error) {
	return nil, fmt.Errorf("store unavailable")
}

func TestRankingStoreFailureDegradesToEmpty(t *testing.T) {
	var logged []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		logged = append(logged, fmt.Sprintf(format, v...))
	})
	defer monitoring.SetLogger(nil)

	ranking := Ranking(failingStore{}, nil)
	if len(ranking) != 0 {
		t.Errorf("expected empty ranking on store failure, got %v", ranking)
	}
	if len(logged) == 0 {
		t.Error("expected a diagnostic log entry")
	}
}

func TestRankingExplicitPeriod(t *testing.T) {
	database := setupTestStore(t)
	period := seedScenario(t, database, []string{"A", "B"}, [][]float64{
		{10, 1},
		{2, 8},
	})

	// An inactive later period must not shadow an explicitly requested one.
	later := &db.Period{Name: "Q2 2025", StartUnix: 2000, IsActive: false}
	if err := database.CreatePeriod(later); err != nil {
		t.Fatalf("CreatePeriod failed: %v", err)
	}

	ranking := Ranking(database, &period.ID)
	if len(ranking) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranking))
	}
	if ranking[0].Period != "Q1 2025" {
		t.Errorf("expected ranking scoped to Q1 2025, got %q", ranking[0].Period)
	}
	if ranking[0].Product != "A" {
		t.Errorf("expected A first, got %q", ranking[0].Product)
	}
}
