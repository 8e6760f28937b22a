// Package topsis implements multi-criteria product ranking using the
// Technique for Order Preference by Similarity to Ideal Solution: per-column
// vector normalization, criterion weighting, distance to ideal and anti-ideal
// reference points, and a dense preference ordering.
package topsis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/arbor-data/preference.rank/internal/db"
)

// Errors surfaced by the matrix builder. The engine converts both into the
// degrade-to-empty result; callers that build matrices directly can branch on
// them.
var (
	ErrNoActivePeriod = errors.New("no active period")
	ErrNoData         = errors.New("no products or criteria")
)

// Store is the read surface of the score database the ranking engine needs.
// *db.DB satisfies it.
type Store interface {
	ListProducts() ([]db.Product, error)
	ListCriteria() ([]db.Criterion, error)
	GetPeriod(id int) (*db.Period, error)
	LatestActivePeriod() (*db.Period, error)
	ScoresForPeriod(periodID int) ([]db.PeriodScore, error)
}

// DecisionMatrix is a product-by-criterion score table for one period.
// X holds products as rows and criteria as columns; cells with no recorded
// score are 0.
type DecisionMatrix struct {
	Period   db.Period
	Products []db.Product
	Criteria []db.Criterion
	X        *mat.Dense
}

// BuildMatrix assembles the decision matrix for the given period, or for the
// active period when periodID is nil. Products keep store insertion order and
// criteria are sorted by code ascending.
func BuildMatrix(store Store, periodID *int) (*DecisionMatrix, error) {
	period, err := resolvePeriod(store, periodID)
	if err != nil {
		return nil, err
	}

	products, err := store.ListProducts()
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	criteria, err := store.ListCriteria()
	if err != nil {
		return nil, fmt.Errorf("failed to list criteria: %w", err)
	}
	if len(products) == 0 || len(criteria) == 0 {
		return nil, ErrNoData
	}

	scores, err := store.ScoresForPeriod(period.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores for period %q: %w", period.Name, err)
	}

	type cell struct{ product, criterion int }
	values := make(map[cell]float64, len(scores))
	for _, score := range scores {
		values[cell{score.ProductID, score.CriterionID}] = score.Value
	}

	// Missing (product, criterion) entries stay at the zero value.
	x := mat.NewDense(len(products), len(criteria), nil)
	for i, product := range products {
		for j, criterion := range criteria {
			if value, ok := values[cell{product.ID, criterion.ID}]; ok {
				x.Set(i, j, value)
			}
		}
	}

	return &DecisionMatrix{
		Period:   *period,
		Products: products,
		Criteria: criteria,
		X:        x,
	}, nil
}

func resolvePeriod(store Store, periodID *int) (*db.Period, error) {
	if periodID != nil {
		period, err := store.GetPeriod(*periodID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve period %d: %w", *periodID, err)
		}
		return period, nil
	}

	period, err := store.LatestActivePeriod()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active period: %w", err)
	}
	if period == nil {
		return nil, ErrNoActivePeriod
	}
	return period, nil
}
