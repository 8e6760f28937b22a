package db

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching.
func RunMigrateCommand(args []string, dbPath, migrationsDir string) {
	if len(args) < 1 {
		PrintMigrateHelp()
		os.Exit(1)
	}

	action := args[0]

	database, err := NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch action {
	case "up":
		if err := database.MigrateUp(migrationsDir); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		version, dirty, _ := database.MigrateVersion(migrationsDir)
		fmt.Printf("Migrations applied. Current version: %d (dirty: %v)\n", version, dirty)

	case "down":
		if err := database.MigrateDown(migrationsDir); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		version, dirty, _ := database.MigrateVersion(migrationsDir)
		fmt.Printf("Rolled back one migration. Current version: %d (dirty: %v)\n", version, dirty)

	case "status":
		status, err := database.GetMigrationStatus(migrationsDir)
		if err != nil {
			log.Fatalf("Failed to get migration status: %v", err)
		}
		latest, err := GetLatestMigrationVersion(migrationsDir)
		if err != nil {
			log.Fatalf("Failed to get latest migration version: %v", err)
		}
		fmt.Printf("Current version: %v (dirty: %v)\n", status["current_version"], status["dirty"])
		fmt.Printf("Latest available: %d\n", latest)

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: preference-rank migrate force <version_number>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Invalid version number %q: %v", args[1], err)
		}
		if err := database.MigrateForce(migrationsDir, version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		fmt.Printf("Forced migration version to %d\n", version)

	case "help":
		PrintMigrateHelp()

	default:
		fmt.Printf("Unknown migrate action: %s\n\n", action)
		PrintMigrateHelp()
		os.Exit(1)
	}
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp() {
	fmt.Println(`Usage: preference-rank migrate <action>

Actions:
  up              Apply all pending migrations
  down            Roll back the most recent migration
  status          Show current and latest migration versions
  force <n>       Force the migration version (dirty-state recovery)
  help            Show this help`)
}
