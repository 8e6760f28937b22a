package topsis

import (
	"testing"
)

func entry(product string, rank int, score float64) RankEntry {
	return RankEntry{Product: product, Score: score, Rank: rank, Period: "P"}
}

func TestCompareIdenticalRankingsAllStable(t *testing.T) {
	ranking := []RankEntry{
		entry("A", 1, 0.9),
		entry("B", 2, 0.5),
		entry("C", 3, 0.1),
	}

	movements := Compare(ranking, ranking)
	if len(movements) != 3 {
		t.Fatalf("expected 3 movements, got %d", len(movements))
	}
	for _, movement := range movements {
		if movement.RankDelta != 0 {
			t.Errorf("%s: delta = %d, want 0", movement.Product, movement.RankDelta)
		}
		if movement.Status != StatusStable {
			t.Errorf("%s: status = %q, want stable", movement.Product, movement.Status)
		}
	}
}

func TestCompareUpAndDown(t *testing.T) {
	start := []RankEntry{
		entry("A", 1, 0.9),
		entry("B", 2, 0.5),
		entry("C", 3, 0.1),
	}
	end := []RankEntry{
		entry("C", 1, 0.8),
		entry("A", 2, 0.7),
		entry("B", 3, 0.2),
	}

	movements := Compare(start, end)

	byProduct := map[string]Movement{}
	for _, movement := range movements {
		byProduct[movement.Product] = movement
	}

	if m := byProduct["C"]; m.RankDelta != 2 || m.Status != StatusUp {
		t.Errorf("C = %+v, want delta 2 up", m)
	}
	if m := byProduct["A"]; m.RankDelta != -1 || m.Status != StatusDown {
		t.Errorf("A = %+v, want delta -1 down", m)
	}
	if m := byProduct["B"]; m.RankDelta != -1 || m.Status != StatusDown {
		t.Errorf("B = %+v, want delta -1 down", m)
	}

	// Largest absolute movers first.
	if movements[0].Product != "C" {
		t.Errorf("expected C first (|delta|=2), got %q", movements[0].Product)
	}
}

// A product that appears only in the ending ranking keeps the historical
// "stable with delta 0" classification rather than a distinct "new" status.
// This test pins that behaviour.
func TestCompareNewProductIsStable(t *testing.T) {
	start := []RankEntry{
		entry("A", 1, 0.9),
	}
	end := []RankEntry{
		entry("A", 1, 0.8),
		entry("Newcomer", 2, 0.6),
	}

	movements := Compare(start, end)

	var newcomer *Movement
	for i := range movements {
		if movements[i].Product == "Newcomer" {
			newcomer = &movements[i]
		}
	}
	if newcomer == nil {
		t.Fatal("expected a movement record for Newcomer")
	}
	if newcomer.StartRank != nil {
		t.Errorf("StartRank = %v, want nil", *newcomer.StartRank)
	}
	if newcomer.StartScore != nil {
		t.Errorf("StartScore = %v, want nil", *newcomer.StartScore)
	}
	if newcomer.RankDelta != 0 {
		t.Errorf("RankDelta = %d, want 0", newcomer.RankDelta)
	}
	if newcomer.Status != StatusStable {
		t.Errorf("Status = %q, want stable", newcomer.Status)
	}
}

func TestCompareFirstNameMatchWins(t *testing.T) {
	start := []RankEntry{
		entry("Dup", 1, 0.9),
		entry("Dup", 3, 0.2),
	}
	end := []RankEntry{
		entry("Dup", 2, 0.5),
	}

	movements := Compare(start, end)
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	if movements[0].StartRank == nil || *movements[0].StartRank != 1 {
		t.Errorf("expected first match (rank 1) to win, got %v", movements[0].StartRank)
	}
	if movements[0].RankDelta != -1 {
		t.Errorf("RankDelta = %d, want -1", movements[0].RankDelta)
	}
}

func TestCompareEmptyRankings(t *testing.T) {
	if got := Compare(nil, nil); len(got) != 0 {
		t.Errorf("expected no movements for empty rankings, got %v", got)
	}

	end := []RankEntry{entry("A", 1, 0.5)}
	movements := Compare(nil, end)
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	if movements[0].StartRank != nil || movements[0].RankDelta != 0 {
		t.Errorf("unexpected movement for empty start: %+v", movements[0])
	}
}
