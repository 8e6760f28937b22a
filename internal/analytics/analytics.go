// Package analytics derives dashboard views from ranking output: top
// performers, period-over-period improvement, per-criterion summaries and the
// sales time series. Every public operation follows the degrade-to-empty
// policy of the ranking engine: failures are logged and surface as empty
// results.
package analytics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/arbor-data/preference.rank/internal/db"
	"github.com/arbor-data/preference.rank/internal/monitoring"
	"github.com/arbor-data/preference.rank/internal/topsis"
)

// improvementLimit caps the improvement view at the biggest climbers.
const improvementLimit = 5

// Analyzer computes derived views over the score database.
type Analyzer struct {
	db             *db.DB
	salesCriterion string
}

// NewAnalyzer creates an Analyzer. salesCriterion is the criterion code the
// sales time series charts, typically "C1".
func NewAnalyzer(database *db.DB, salesCriterion string) *Analyzer {
	return &Analyzer{
		db:            database,
		salesCriterion: salesCriterion,
	}
}

// TopPerformers returns the top limit entries of a ranking, re-sorted by
// preference score descending. The ranking is already ordered that way, but
// the view re-derives the order instead of assuming it.
func TopPerformers(ranking []topsis.RankEntry, limit int) []topsis.RankEntry {
	top := make([]topsis.RankEntry, len(ranking))
	copy(top, ranking)

	sort.SliceStable(top, func(a, b int) bool {
		return top[a].Score > top[b].Score
	})

	if limit < len(top) {
		top = top[:limit]
	}
	return top
}

// Improvement compares the active period against its immediate predecessor
// and returns the products that moved up in rank, biggest climbs first,
// capped at five. Returns empty when there is no active period or no
// predecessor.
func (a *Analyzer) Improvement() []topsis.Movement {
	active, err := a.db.LatestActivePeriod()
	if err != nil {
		monitoring.Logf("analytics: improvement unavailable: %v", err)
		return []topsis.Movement{}
	}
	if active == nil {
		monitoring.Logf("analytics: improvement unavailable: no active period")
		return []topsis.Movement{}
	}

	previous, err := a.db.PreviousPeriod(active)
	if err != nil {
		monitoring.Logf("analytics: improvement unavailable: %v", err)
		return []topsis.Movement{}
	}
	if previous == nil {
		return []topsis.Movement{}
	}

	start := topsis.Ranking(a.db, &previous.ID)
	end := topsis.Ranking(a.db, &active.ID)
	movements := topsis.Compare(start, end)

	improved := make([]topsis.Movement, 0, len(movements))
	for _, movement := range movements {
		if movement.RankDelta > 0 {
			improved = append(improved, movement)
		}
	}

	sort.SliceStable(improved, func(i, j int) bool {
		return improved[i].RankDelta > improved[j].RankDelta
	})

	if len(improved) > improvementLimit {
		improved = improved[:improvementLimit]
	}
	return improved
}

// CriterionSummary describes one criterion's influence in a period.
type CriterionSummary struct {
	Weight float64 `json:"weight"`
	Nature string  `json:"nature"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

// CriterionAnalysis summarizes every criterion's scores within a period,
// keyed by criterion name. Criteria with no recorded scores report a zero
// mean and count.
func (a *Analyzer) CriterionAnalysis(periodID int) map[string]CriterionSummary {
	criteria, err := a.db.ListCriteria()
	if err != nil {
		monitoring.Logf("analytics: criterion analysis unavailable: %v", err)
		return map[string]CriterionSummary{}
	}

	analysis := make(map[string]CriterionSummary, len(criteria))
	for _, criterion := range criteria {
		values, err := a.db.CriterionScores(criterion.ID, periodID)
		if err != nil {
			monitoring.Logf("analytics: criterion analysis unavailable: %v", err)
			return map[string]CriterionSummary{}
		}

		summary := CriterionSummary{
			Weight: criterion.Weight,
			Nature: criterion.Nature,
			Count:  len(values),
		}
		if len(values) > 0 {
			summary.Mean = stat.Mean(values, nil)
		}
		if len(values) > 1 {
			summary.StdDev = stat.StdDev(values, nil)
		}
		analysis[criterion.Name] = summary
	}

	return analysis
}

// ActivePeriodID resolves the active period for views that default to it.
// Returns an error rather than degrading: the HTTP layer turns it into a
// request error.
func (a *Analyzer) ActivePeriodID() (int, error) {
	active, err := a.db.LatestActivePeriod()
	if err != nil {
		return 0, err
	}
	if active == nil {
		return 0, fmt.Errorf("no active period")
	}
	return active.ID, nil
}
