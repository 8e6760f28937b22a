// Command seed loads demo data into the database: four criteria, three
// products and two scored quarters, enough to exercise every API endpoint.
package main

import (
	"flag"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arbor-data/preference.rank/internal/db"
)

var dbPath = flag.String("db", "rank.db", "SQLite database path")

func main() {
	flag.Parse()

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	criteria := []db.Criterion{
		{Code: "C1", Name: "Sales Volume", Weight: 5, Nature: db.NatureBenefit, UserEnterable: true},
		{Code: "C2", Name: "Profit per Unit", Weight: 4, Nature: db.NatureBenefit, UserEnterable: false},
		{Code: "C3", Name: "Customer Rating", Weight: 4, Nature: db.NatureBenefit, UserEnterable: true},
		{Code: "C4", Name: "Production Cost", Weight: 3, Nature: db.NatureCost, UserEnterable: false},
	}
	for i := range criteria {
		if err := database.CreateCriterion(&criteria[i]); err != nil {
			log.Fatalf("failed to create criterion %s: %v", criteria[i].Code, err)
		}
		log.Printf("criterion: %s (%s)", criteria[i].Name, criteria[i].Code)
	}

	products := []db.Product{
		{Name: "Pandan Sponge Cake"},
		{Name: "Pandan Roll"},
		{Name: "Chocolate Brownies"},
	}
	for i := range products {
		if err := database.CreateProduct(&products[i]); err != nil {
			log.Fatalf("failed to create product %s: %v", products[i].Name, err)
		}
		log.Printf("product: %s", products[i].Name)
	}

	now := time.Now()
	quarterAgo := now.AddDate(0, -3, 0)

	previousEnd := float64(quarterAgo.AddDate(0, 3, 0).Unix())
	previous := db.Period{
		Name:      quarterAgo.Format("2006") + " Q" + quarter(quarterAgo),
		StartUnix: float64(quarterAgo.Unix()),
		EndUnix:   &previousEnd,
		IsActive:  false,
	}
	active := db.Period{
		Name:      now.Format("2006") + " Q" + quarter(now),
		StartUnix: float64(now.Unix()),
		IsActive:  true,
	}
	for _, period := range []*db.Period{&previous, &active} {
		if err := database.CreatePeriod(period); err != nil {
			log.Fatalf("failed to create period %s: %v", period.Name, err)
		}
		log.Printf("period: %s", period.Name)
	}

	// Scores per product, ordered C1..C4. The brownies overtake the sponge
	// cake in the active quarter so the improvement view has something to
	// show.
	previousScores := [][]float64{
		{120, 9, 4.6, 7},
		{95, 7, 4.2, 5},
		{80, 11, 4.4, 9},
	}
	activeScores := [][]float64{
		{110, 9, 4.5, 7},
		{90, 7, 4.3, 5},
		{140, 12, 4.8, 9},
	}

	seedScores := func(period *db.Period, values [][]float64) {
		for i, product := range products {
			for j, criterion := range criteria {
				score := db.Score{
					ProductID:   product.ID,
					CriterionID: criterion.ID,
					PeriodID:    period.ID,
					Value:       values[i][j],
				}
				if err := database.UpsertScore(&score); err != nil {
					log.Fatalf("failed to seed score: %v", err)
				}
			}
		}
	}
	seedScores(&previous, previousScores)
	seedScores(&active, activeScores)

	log.Print("seed complete")
}

func quarter(t time.Time) string {
	switch {
	case t.Month() <= 3:
		return "1"
	case t.Month() <= 6:
		return "2"
	case t.Month() <= 9:
		return "3"
	default:
		return "4"
	}
}
