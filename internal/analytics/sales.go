package analytics

import (
	"fmt"

	"github.com/arbor-data/preference.rank/internal/monitoring"
)

// topSalesProducts caps the sales series at the biggest sellers.
const topSalesProducts = 5

// Dataset is one product's labeled time series, shaped for the charting
// layer.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
}

// SeriesData is a labeled multi-product time series.
type SeriesData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// SalesSeries builds the per-period sales series for the top five products by
// total score on the sales criterion, across the periodCount most recent
// periods in chronological order. Periods without a recorded score chart as 0.
func (a *Analyzer) SalesSeries(periodCount int) SeriesData {
	periods, err := a.db.RecentPeriods(periodCount)
	if err != nil {
		monitoring.Logf("analytics: sales series unavailable: %v", err)
		return SeriesData{}
	}

	criterion, err := a.db.GetCriterionByCode(a.salesCriterion)
	if err != nil {
		monitoring.Logf("analytics: sales series unavailable: %v", err)
		return SeriesData{}
	}

	totals, err := a.db.ProductTotalsForCriterion(a.salesCriterion, topSalesProducts)
	if err != nil {
		monitoring.Logf("analytics: sales series unavailable: %v", err)
		return SeriesData{}
	}

	series := SeriesData{
		Labels:   make([]string, len(periods)),
		Datasets: make([]Dataset, 0, len(totals)),
	}
	for i, period := range periods {
		series.Labels[i] = period.Name
	}

	for _, total := range totals {
		data := make([]float64, len(periods))
		for i, period := range periods {
			value, ok, err := a.db.ScoreFor(total.ProductID, criterion.ID, period.ID)
			if err != nil {
				monitoring.Logf("analytics: sales series unavailable: %v", err)
				return SeriesData{}
			}
			if ok {
				data[i] = value
			}
		}

		index := len(series.Datasets)
		series.Datasets = append(series.Datasets, Dataset{
			Label:           total.Name,
			Data:            data,
			BorderColor:     chartColor(index, 1),
			BackgroundColor: chartColor(index, 0.1),
		})
	}

	return series
}

// chartColor cycles a fixed palette, with an opacity variant for fills.
func chartColor(index int, opacity float64) string {
	colors := []string{
		"rgba(54, 162, 235, %g)",  // blue
		"rgba(255, 99, 132, %g)",  // red
		"rgba(75, 192, 192, %g)",  // green
		"rgba(255, 159, 64, %g)",  // orange
		"rgba(153, 102, 255, %g)", // purple
		"rgba(255, 205, 86, %g)",  // yellow
		"rgba(201, 203, 207, %g)", // grey
	}
	return fmt.Sprintf(colors[index%len(colors)], opacity)
}
