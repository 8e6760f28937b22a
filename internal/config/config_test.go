package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "rank.json", `{"listen": ":9090", "top_limit": 3}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.GetListen(); got != ":9090" {
		t.Errorf("GetListen() = %q, want :9090", got)
	}
	if got := cfg.GetTopLimit(); got != 3 {
		t.Errorf("GetTopLimit() = %d, want 3", got)
	}

	// Everything the file omits falls back to defaults.
	if got := cfg.GetDBPath(); got != "rank.db" {
		t.Errorf("GetDBPath() = %q, want rank.db", got)
	}
	if got := cfg.GetSalesCriterion(); got != "C1" {
		t.Errorf("GetSalesCriterion() = %q, want C1", got)
	}
	if got := cfg.GetSalesPeriods(); got != 4 {
		t.Errorf("GetSalesPeriods() = %d, want 4", got)
	}
	if got := cfg.GetReportDir(); got != "reports" {
		t.Errorf("GetReportDir() = %q, want reports", got)
	}
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "rank.yaml", `listen: ":9090"`)
	if _, err := Load(path); err == nil {
		t.Error("expected an error for a non-JSON extension")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero top limit", `{"top_limit": 0}`},
		{"negative sales periods", `{"sales_periods": -1}`},
		{"empty sales criterion", `{"sales_criterion": ""}`},
		{"malformed JSON", `{"listen": `},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "rank.json", tc.content)
			if _, err := Load(path); err == nil {
				t.Errorf("expected an error for %s", tc.name)
			}
		})
	}
}

func TestEmptyConfigDefaults(t *testing.T) {
	cfg := EmptyConfig()
	if cfg.GetListen() != ":8080" {
		t.Errorf("GetListen() = %q, want :8080", cfg.GetListen())
	}
	if cfg.GetTopLimit() != 5 {
		t.Errorf("GetTopLimit() = %d, want 5", cfg.GetTopLimit())
	}
}
