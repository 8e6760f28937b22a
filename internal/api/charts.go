package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/arbor-data/preference.rank/internal/httputil"
)

// renderSalesChart renders the sales series as an HTML line chart using
// go-echarts. This is a browser-facing convenience view over the same data
// /api/analytics/sales serves as JSON.
func (s *Server) renderSalesChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	series := s.analyzer.SalesSeries(s.cfg.GetSalesPeriods())
	if len(series.Labels) == 0 {
		httputil.NotFound(w, "no sales data available")
		return
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Sales by Period", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: "Sales by Period", Subtitle: fmt.Sprintf("top %d products", len(series.Datasets))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(series.Labels)
	for _, dataset := range series.Datasets {
		points := make([]opts.LineData, len(dataset.Data))
		for i, value := range dataset.Data {
			points[i] = opts.LineData{Value: value}
		}
		line.AddSeries(dataset.Label, points,
			charts.WithLineStyleOpts(opts.LineStyle{Color: dataset.BorderColor}),
		)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
