package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/models"
)

const (
	// DefaultPollMaxAttempts is how many times a job is polled before giving up
	DefaultPollMaxAttempts = 30
	// DefaultPollInterval is the wait between polls
	DefaultPollInterval = 2 * time.Second
)

// Poller waits for a submitted job to reach a terminal state
type Poller struct {
	engine      Engine
	maxAttempts int
	interval    time.Duration
	logger      *zap.Logger

	// sleep is swapped out in tests to avoid real waits
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a poller with the given budget. Zero values fall
// back to the defaults (30 attempts, 2s apart).
func NewPoller(engine Engine, maxAttempts int, interval time.Duration, logger *zap.Logger) *Poller {
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		engine:      engine,
		maxAttempts: maxAttempts,
		interval:    interval,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// WaitForResult polls the job until it completes, fails, or the attempt
// budget is exhausted. Completed jobs return immediately without waiting
// out the remaining attempts.
func (p *Poller) WaitForResult(ctx context.Context, jobID string) (*models.AnalysisResult, error) {
	start := time.Now()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		state, err := p.engine.GetJob(ctx, jobID)
		if err != nil {
			// Transient fetch errors consume an attempt but do not abort,
			// the engine may recover before the budget runs out
			p.logger.Warn("analysis_job_poll_error",
				zap.String("job_id", jobID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		} else {
			switch state.Status {
			case JobStatusCompleted:
				if state.Result == nil {
					return nil, &JobFailedError{JobID: jobID, Reason: "completed without result"}
				}
				p.logger.Info("analysis_job_completed",
					zap.String("job_id", jobID),
					zap.Int("attempts", attempt),
					zap.Duration("elapsed", time.Since(start)),
				)
				return state.Result, nil
			case JobStatusFailed:
				return nil, &JobFailedError{JobID: jobID, Reason: state.Error}
			case JobStatusPending, JobStatusProcessing:
				// keep polling
			default:
				return nil, fmt.Errorf("engine returned unknown job status %q for job %s", state.Status, jobID)
			}
		}

		if attempt < p.maxAttempts {
			if err := p.sleep(ctx, p.interval); err != nil {
				return nil, err
			}
		}
	}

	return nil, &PollTimeoutError{
		JobID:    jobID,
		Attempts: p.maxAttempts,
		Waited:   time.Since(start),
	}
}

// sleepContext sleeps for d or until ctx is cancelled
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
