package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/queue"
)

// RecentAnalysisLister lists analyses across all users for a period
type RecentAnalysisLister interface {
	GetCreatedSince(ctx context.Context, since time.Time) ([]*models.Analysis, error)
}

// Summarizer fans out weekly summary jobs, one per user who ran at
// least one analysis in the past week. The notifier worker renders and
// sends the actual emails.
type Summarizer struct {
	analyses RecentAnalysisLister
	jobQueue queue.JobQueue
	logger   *zap.Logger
}

// NewSummarizer creates a summarizer
func NewSummarizer(analyses RecentAnalysisLister, jobQueue queue.JobQueue, logger *zap.Logger) *Summarizer {
	return &Summarizer{
		analyses: analyses,
		jobQueue: jobQueue,
		logger:   logger,
	}
}

// EnqueueSummaries queues one weekly summary job per active user.
// Returns the number of jobs enqueued.
func (s *Summarizer) EnqueueSummaries(ctx context.Context) (int, error) {
	recent, err := s.analyses.GetCreatedSince(ctx, time.Now().Add(-summaryWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to list recent analyses: %w", err)
	}

	seen := make(map[uuid.UUID]bool)
	enqueued := 0
	for _, analysis := range recent {
		if seen[analysis.UserID] {
			continue
		}
		seen[analysis.UserID] = true

		job := queue.NewWeeklySummaryJob(analysis.UserID)
		if err := s.jobQueue.Enqueue(ctx, job); err != nil {
			// Keep going, one user's failure should not starve the rest
			s.logger.Error("weekly_summary_enqueue_failed",
				zap.String("user_id", analysis.UserID.String()),
				zap.Error(err),
			)
			continue
		}
		enqueued++
	}

	s.logger.Info("weekly_summaries_enqueued",
		zap.Int("users", len(seen)),
		zap.Int("enqueued", enqueued),
	)

	return enqueued, nil
}
