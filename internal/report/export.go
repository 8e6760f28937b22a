// Package report exports ranking runs as on-disk artifacts: a JSON snapshot
// of the ranking and an optional rendered chart, each recorded in the
// rank_reports table so past runs stay auditable.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/arbor-data/preference.rank/internal/db"
	"github.com/arbor-data/preference.rank/internal/timeutil"
	"github.com/arbor-data/preference.rank/internal/topsis"
)

// Exporter writes ranking artifacts under a base directory and records them
// in the database.
type Exporter struct {
	db    *db.DB
	dir   string
	clock timeutil.Clock
}

// NewExporter creates an Exporter writing artifacts under dir.
func NewExporter(database *db.DB, dir string, clock timeutil.Clock) *Exporter {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Exporter{db: database, dir: dir, clock: clock}
}

// artifact is the JSON document written per run.
type artifact struct {
	RunID       string             `json:"run_id"`
	Period      string             `json:"period"`
	GeneratedAt time.Time          `json:"generated_at"`
	Ranking     []topsis.RankEntry `json:"ranking"`
}

// FormatRunID generates a timestamp-based run ID for artifact naming, with a
// short random suffix so two runs in the same second never collide.
func FormatRunID(t time.Time) string {
	return t.Format("20060102_150405") + "_" + uuid.NewString()[:8]
}

// ExportRanking writes the ranking as a JSON artifact, optionally renders a
// preference score chart next to it, and records the run. The ranking must be
// non-empty; callers handle the degraded empty case before exporting.
func (e *Exporter) ExportRanking(ranking []topsis.RankEntry, withChart bool) (*db.RankReport, error) {
	if len(ranking) == 0 {
		return nil, fmt.Errorf("nothing to export: empty ranking")
	}

	now := e.clock.Now()
	runID := FormatRunID(now)

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report dir: %w", err)
	}

	doc := artifact{
		RunID:       runID,
		Period:      ranking[0].Period,
		GeneratedAt: now,
		Ranking:     ranking,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ranking: %w", err)
	}

	filename := fmt.Sprintf("ranking_%s.json", runID)
	if err := os.WriteFile(filepath.Join(e.dir, filename), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write ranking artifact: %w", err)
	}

	report := &db.RankReport{
		PeriodName: ranking[0].Period,
		Filepath:   e.dir,
		Filename:   filename,
		RunID:      runID,
	}

	if withChart {
		chartName := fmt.Sprintf("ranking_%s.png", runID)
		if err := RenderScoreChart(ranking, filepath.Join(e.dir, chartName)); err != nil {
			return nil, fmt.Errorf("failed to render chart: %w", err)
		}
		report.ChartFilename = &chartName
	}

	if err := e.db.CreateRankReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// ReadArtifact loads a previously exported ranking artifact from disk.
func (e *Exporter) ReadArtifact(report *db.RankReport) ([]topsis.RankEntry, error) {
	data, err := os.ReadFile(filepath.Join(report.Filepath, report.Filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read ranking artifact: %w", err)
	}

	var doc artifact
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse ranking artifact: %w", err)
	}
	return doc.Ranking, nil
}
