// Package api exposes the ranking engine and its derived views over HTTP as
// JSON endpoints, plus an HTML chart of the sales series.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/arbor-data/preference.rank/internal/analytics"
	"github.com/arbor-data/preference.rank/internal/config"
	"github.com/arbor-data/preference.rank/internal/db"
	"github.com/arbor-data/preference.rank/internal/httputil"
	"github.com/arbor-data/preference.rank/internal/report"
	"github.com/arbor-data/preference.rank/internal/topsis"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db       *db.DB
	analyzer *analytics.Analyzer
	exporter *report.Exporter
	cfg      *config.Config
}

func NewServer(database *db.DB, analyzer *analytics.Analyzer, exporter *report.Exporter, cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.EmptyConfig()
	}
	return &Server{
		db:       database,
		analyzer: analyzer,
		exporter: exporter,
		cfg:      cfg,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ranking", s.showRanking)
	mux.HandleFunc("/api/comparison", s.showComparison)
	mux.HandleFunc("/api/analytics/top", s.showTopPerformers)
	mux.HandleFunc("/api/analytics/improvement", s.showImprovement)
	mux.HandleFunc("/api/analytics/criteria", s.showCriterionAnalysis)
	mux.HandleFunc("/api/analytics/sales", s.showSalesSeries)
	mux.HandleFunc("/api/products", s.handleProducts)
	mux.HandleFunc("/api/criteria", s.listCriteria)
	mux.HandleFunc("/api/periods", s.listPeriods)
	mux.HandleFunc("/api/scores", s.upsertScore)
	mux.HandleFunc("/api/reports", s.handleReports)
	mux.HandleFunc("/charts/sales", s.renderSalesChart)
	return mux
}

// optionalPeriodID parses the period_id query parameter. Absent means nil,
// the caller's signal to use the active period.
func optionalPeriodID(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("period_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return nil, fmt.Errorf("invalid 'period_id' parameter")
	}
	return &id, nil
}

func (s *Server) showRanking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	periodID, err := optionalPeriodID(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	httputil.WriteJSONOK(w, topsis.Ranking(s.db, periodID))
}

func (s *Server) showComparison(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	startID, err := strconv.Atoi(r.URL.Query().Get("start"))
	if err != nil || startID < 1 {
		httputil.BadRequest(w, "invalid 'start' parameter")
		return
	}
	endID, err := strconv.Atoi(r.URL.Query().Get("end"))
	if err != nil || endID < 1 {
		httputil.BadRequest(w, "invalid 'end' parameter")
		return
	}

	start := topsis.Ranking(s.db, &startID)
	end := topsis.Ranking(s.db, &endID)
	httputil.WriteJSONOK(w, topsis.Compare(start, end))
}

func (s *Server) showTopPerformers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	limit := s.cfg.GetTopLimit()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	ranking := topsis.Ranking(s.db, nil)
	httputil.WriteJSONOK(w, analytics.TopPerformers(ranking, limit))
}

func (s *Server) showImprovement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, s.analyzer.Improvement())
}

func (s *Server) showCriterionAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	periodID, err := optionalPeriodID(r)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	if periodID == nil {
		active, err := s.analyzer.ActivePeriodID()
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		periodID = &active
	}

	httputil.WriteJSONOK(w, s.analyzer.CriterionAnalysis(*periodID))
}

func (s *Server) showSalesSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	periods := s.cfg.GetSalesPeriods()
	if raw := r.URL.Query().Get("periods"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'periods' parameter")
			return
		}
		periods = parsed
	}

	httputil.WriteJSONOK(w, s.analyzer.SalesSeries(periods))
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := s.db.ListProducts()
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to list products: %v", err))
			return
		}
		httputil.WriteJSONOK(w, products)

	case http.MethodPost:
		var product db.Product
		if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
			httputil.BadRequest(w, "invalid product JSON")
			return
		}
		if product.Name == "" {
			httputil.BadRequest(w, "product name is required")
			return
		}
		if err := s.db.CreateProduct(&product); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to create product: %v", err))
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, product)

	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) listCriteria(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	criteria, err := s.db.ListCriteria()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list criteria: %v", err))
		return
	}
	httputil.WriteJSONOK(w, criteria)
}

func (s *Server) listPeriods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	periods, err := s.db.ListPeriods()
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list periods: %v", err))
		return
	}
	httputil.WriteJSONOK(w, periods)
}

func (s *Server) upsertScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var score db.Score
	if err := json.NewDecoder(r.Body).Decode(&score); err != nil {
		httputil.BadRequest(w, "invalid score JSON")
		return
	}
	if score.ProductID < 1 || score.CriterionID < 1 || score.PeriodID < 1 {
		httputil.BadRequest(w, "product_id, criterion_id and period_id are required")
		return
	}

	if err := s.db.UpsertScore(&score); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to save score: %v", err))
		return
	}
	httputil.WriteJSONOK(w, score)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				httputil.BadRequest(w, "invalid 'limit' parameter")
				return
			}
			limit = parsed
		}
		reports, err := s.db.RecentRankReports(limit)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to list reports: %v", err))
			return
		}
		if reports == nil {
			reports = []db.RankReport{}
		}
		httputil.WriteJSONOK(w, reports)

	case http.MethodPost:
		periodID, err := optionalPeriodID(r)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		withChart := r.URL.Query().Get("chart") == "true"

		ranking := topsis.Ranking(s.db, periodID)
		if len(ranking) == 0 {
			httputil.BadRequest(w, "no ranking available to export")
			return
		}

		record, err := s.exporter.ExportRanking(ranking, withChart)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to export report: %v", err))
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, record)

	default:
		httputil.MethodNotAllowed(w)
	}
}
