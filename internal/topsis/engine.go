package topsis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/arbor-data/preference.rank/internal/monitoring"
)

// epsilon guards zero-norm columns and zero total separation. The exact
// constant affects tie behaviour at the boundary; do not change it without
// revisiting the tie tests.
const epsilon = 1e-10

// RankEntry is one row of a ranking result. Preference scores are in [0, 1];
// ranks are dense and 1-based.
type RankEntry struct {
	Product string  `json:"product"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
	Period  string  `json:"period"`
}

// Ranking computes the TOPSIS preference ranking for the given period, or for
// the active period when periodID is nil.
//
// Any failure (no active period, empty data, store error) is logged and
// degrades to an empty list. Callers must treat an empty result as "no
// ranking available", not as zero tied products.
func Ranking(store Store, periodID *int) []RankEntry {
	dm, err := BuildMatrix(store, periodID)
	if err != nil {
		monitoring.Logf("topsis: ranking unavailable: %v", err)
		return []RankEntry{}
	}
	return Rank(dm)
}

// Rank scores and orders an assembled decision matrix.
func Rank(dm *DecisionMatrix) []RankEntry {
	preferences := Preferences(dm)

	entries := make([]RankEntry, len(dm.Products))
	for i, product := range dm.Products {
		entries[i] = RankEntry{
			Product: product.Name,
			Score:   preferences[i],
			Period:  dm.Period.Name,
		}
	}

	// Stable sort: products with exactly equal preference scores keep their
	// input order. That ordering is the only tie-break.
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Score > entries[b].Score
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

// Preferences computes the TOPSIS preference score for each product row of
// the decision matrix, in row order.
func Preferences(dm *DecisionMatrix) []float64 {
	rows, cols := dm.X.Dims()

	// Normalize each column by its euclidean norm, then weight it. Zero-norm
	// columns divide by epsilon instead.
	weighted := mat.NewDense(rows, cols, nil)
	column := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(column, j, dm.X)
		divisor := floats.Norm(column, 2)
		if divisor == 0 {
			divisor = epsilon
		}
		weight := dm.Criteria[j].Weight
		for i := 0; i < rows; i++ {
			weighted.Set(i, j, column[i]/divisor*weight)
		}
	}

	// Ideal and anti-ideal reference vectors per criterion nature.
	ideal := make([]float64, cols)
	antiIdeal := make([]float64, cols)
	for j := 0; j < cols; j++ {
		mat.Col(column, j, weighted)
		max := floats.Max(column)
		min := floats.Min(column)
		if dm.Criteria[j].Nature == "cost" {
			ideal[j], antiIdeal[j] = min, max
		} else {
			ideal[j], antiIdeal[j] = max, min
		}
	}

	// Separation distances and preference scores.
	preferences := make([]float64, rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, weighted)
		var dPlus, dMinus float64
		for j := 0; j < cols; j++ {
			dPlus += (row[j] - ideal[j]) * (row[j] - ideal[j])
			dMinus += (row[j] - antiIdeal[j]) * (row[j] - antiIdeal[j])
		}
		dPlus = math.Sqrt(dPlus)
		dMinus = math.Sqrt(dMinus)
		preferences[i] = dMinus / (dPlus + dMinus + epsilon)
	}

	return preferences
}
