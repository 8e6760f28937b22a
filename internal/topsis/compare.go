package topsis

import (
	"sort"
)

// Movement statuses.
const (
	StatusUp     = "up"
	StatusDown   = "down"
	StatusStable = "stable"
)

// Movement describes how one product's rank changed between a starting and an
// ending ranking. StartRank and StartScore are nil for products absent from
// the starting ranking; their delta is 0 and status "stable".
type Movement struct {
	Product    string   `json:"product"`
	StartRank  *int     `json:"start_rank"`
	EndRank    int      `json:"end_rank"`
	StartScore *float64 `json:"start_score"`
	EndScore   float64  `json:"end_score"`
	RankDelta  int      `json:"rank_delta"`
	Status     string   `json:"status"`
}

// Compare aligns two rankings by product name and reports a movement record
// for every entry of the ending ranking, largest absolute movers first.
// A positive delta means the product moved up (its rank number decreased).
func Compare(start, end []RankEntry) []Movement {
	movements := make([]Movement, 0, len(end))

	for _, entry := range end {
		movement := Movement{
			Product:  entry.Product,
			EndRank:  entry.Rank,
			EndScore: entry.Score,
			Status:   StatusStable,
		}

		// First name match wins if the starting ranking holds duplicates.
		for _, startEntry := range start {
			if startEntry.Product == entry.Product {
				startRank := startEntry.Rank
				startScore := startEntry.Score
				movement.StartRank = &startRank
				movement.StartScore = &startScore
				movement.RankDelta = startRank - entry.Rank
				break
			}
		}

		switch {
		case movement.RankDelta > 0:
			movement.Status = StatusUp
		case movement.RankDelta < 0:
			movement.Status = StatusDown
		}

		movements = append(movements, movement)
	}

	sort.SliceStable(movements, func(a, b int) bool {
		return abs(movements[a].RankDelta) > abs(movements[b].RankDelta)
	})

	return movements
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
