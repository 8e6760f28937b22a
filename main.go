package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arbor-data/preference.rank/internal/analytics"
	"github.com/arbor-data/preference.rank/internal/api"
	"github.com/arbor-data/preference.rank/internal/config"
	"github.com/arbor-data/preference.rank/internal/db"
	"github.com/arbor-data/preference.rank/internal/report"
	"github.com/arbor-data/preference.rank/internal/timeutil"
)

var (
	listen     = flag.String("listen", "", "Listen address (overrides config)")
	dbPath     = flag.String("db", "", "SQLite database path (overrides config)")
	configPath = flag.String("config", "", "Path to a JSON config file")
	reportDir  = flag.String("reports", "", "Report output directory (overrides config)")
)

const migrationsDir = "migrations"

func main() {
	flag.Parse()

	cfg := config.EmptyConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Flags win over the config file.
	if *listen != "" {
		cfg.Listen = listen
	}
	if *dbPath != "" {
		cfg.DBPath = dbPath
	}
	if *reportDir != "" {
		cfg.ReportDir = reportDir
	}

	// The migrate subcommand runs and exits without starting the server.
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		db.RunMigrateCommand(args[1:], cfg.GetDBPath(), migrationsDir)
		return
	}

	database, err := db.NewDB(cfg.GetDBPath())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close()

	analyzer := analytics.NewAnalyzer(database, cfg.GetSalesCriterion())
	exporter := report.NewExporter(database, cfg.GetReportDir(), timeutil.RealClock{})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(database, analyzer, exporter, cfg).ServeMux()

		// mount the admin debugging routes (accessible only in dev mode or
		// over Tailscale)
		database.AttachAdminRoutes(mux)

		server := &http.Server{
			Addr:    cfg.GetListen(),
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("listening on %s", cfg.GetListen())
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
