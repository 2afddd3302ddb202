package commands

import (
	"fmt"
	"os"

	"github.com/brainindex/brainindex-api/internal/database"
)

// openDB connects using DATABASE_URL. The configure tool reads the
// variable directly so it works without the full server environment.
func openDB() (*database.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return database.New(databaseURL)
}

func closeDB(db *database.DB) {
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
}
