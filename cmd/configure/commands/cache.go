package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/brainindex/brainindex-api/internal/database"
)

// NewCacheCmd creates the cache maintenance command.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the analysis result cache",
	}
	cmd.AddCommand(newCachePurgeCmd())
	return cmd
}

func newCachePurgeCmd() *cobra.Command {
	var windowRetentionHours int
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Purge expired cache entries and stale rate limit windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer closeDB(db)

			ctx := context.Background()

			purged, err := database.NewAnalysisCacheRepository(db).PurgeExpired(ctx)
			if err != nil {
				return fmt.Errorf("purge cache: %w", err)
			}
			fmt.Printf("Purged %d expired cache entries\n", purged)

			retention := time.Duration(windowRetentionHours) * time.Hour
			windows, err := database.NewRateLimitRepository(db).PurgeOldWindows(ctx, retention)
			if err != nil {
				return fmt.Errorf("purge rate limit windows: %w", err)
			}
			fmt.Printf("Purged %d stale rate limit windows\n", windows)

			return nil
		},
	}
	cmd.Flags().IntVar(&windowRetentionHours, "window-retention-hours", 24, "Retention for old rate limit windows")
	return cmd
}
