package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

// DB wraps the sqlite connection holding products, criteria, periods and the
// score triples the ranking engine reads.
type DB struct {
	*sql.DB
}

// NewDB opens (and creates, if necessary) the score database at path.
// Use ":memory:" for an ephemeral database in tests.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			name              TEXT NOT NULL UNIQUE,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS criteria (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			code              TEXT NOT NULL UNIQUE,
			name              TEXT NOT NULL,
			weight            DOUBLE NOT NULL,
			nature            TEXT NOT NULL DEFAULT 'benefit',
			user_enterable    INTEGER NOT NULL DEFAULT 1,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS periods (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			name              TEXT NOT NULL,
			start_unix        DOUBLE NOT NULL,
			end_unix          DOUBLE,
			is_active         INTEGER NOT NULL DEFAULT 0,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS scores (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id        INTEGER NOT NULL,
			criterion_id      INTEGER NOT NULL,
			period_id         INTEGER NOT NULL,
			value             DOUBLE NOT NULL,
			entered_by        TEXT,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(product_id, criterion_id, period_id),
			FOREIGN KEY(product_id) REFERENCES products(id),
			FOREIGN KEY(criterion_id) REFERENCES criteria(id),
			FOREIGN KEY(period_id) REFERENCES periods(id)
		);
		CREATE TABLE IF NOT EXISTS rank_reports (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			period_name       TEXT NOT NULL,
			filepath          TEXT NOT NULL,
			filename          TEXT NOT NULL,
			chart_filename    TEXT,
			run_id            TEXT NOT NULL,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// AttachAdminRoutes mounts the debug routes for live SQL inspection and
// database backup downloads. These are only reachable through the admin mux.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)

	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://rank.db", db.DB, &tailsql.DBOptions{
		Label: "Preference Rank DB",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}

		// close the backup file after sending it
		// and remove it from the filesystem
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()

		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	}))
}
