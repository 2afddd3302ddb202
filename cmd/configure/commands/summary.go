package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/logger"
	"github.com/brainindex/brainindex-api/internal/queue"
	"github.com/brainindex/brainindex-api/internal/workers"
)

// NewWeeklySummaryCmd creates the weekly summary fan-out command. Meant
// to be run from a scheduler (e.g. cron) once a week.
func NewWeeklySummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly-summary",
		Short: "Enqueue weekly summary emails",
		Long:  "Enqueue one weekly summary job for every user with analysis activity in the past week.",
		RunE: func(cmd *cobra.Command, args []string) error {
			amqpURL := os.Getenv("RABBITMQ_URL")
			if amqpURL == "" {
				return fmt.Errorf("RABBITMQ_URL is required")
			}

			db, err := openDB()
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer closeDB(db)

			jobQueue, err := queue.NewRabbitMQQueue(amqpURL)
			if err != nil {
				return fmt.Errorf("connect to RabbitMQ: %w", err)
			}
			defer func() {
				_ = jobQueue.Close()
			}()

			zapLogger, err := logger.NewProductionLogger(false)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}

			summarizer := workers.NewSummarizer(database.NewAnalysisRepository(db), jobQueue, zapLogger)
			enqueued, err := summarizer.EnqueueSummaries(context.Background())
			if err != nil {
				return fmt.Errorf("enqueue weekly summaries: %w", err)
			}

			fmt.Printf("Enqueued %d weekly summary jobs\n", enqueued)
			return nil
		},
	}
	return cmd
}
