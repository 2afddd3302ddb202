package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/database"
	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/queue"
)

const (
	// RateLimitAction is the action key for analyze rate limiting
	RateLimitAction = "analyze"
	// RateLimitWindow is the fixed window for the analyze quota
	RateLimitWindow = time.Hour

	// notifyTimeout bounds the background notification enqueue
	notifyTimeout = 10 * time.Second
)

// Outcome is the result of running the analyze workflow
type Outcome struct {
	Result     *models.AnalysisResult `json:"result"`
	Cached     bool                   `json:"cached"`
	AnalysisID *uuid.UUID             `json:"analysis_id,omitempty"`
}

// Workflow orchestrates a brand analysis from request to result:
// cache lookup, rate limiting, job submission, polling, persistence,
// and completion notification.
type Workflow struct {
	engine    Engine
	poller    *Poller
	cache     database.AnalysisCacheInterface
	limiter   database.RateLimiterInterface
	analyses  database.AnalysisRepositoryInterface
	jobQueue  queue.JobQueue
	cacheTTL  time.Duration
	maxPerWin int
	logger    *zap.Logger
}

// NewWorkflow creates the analyze workflow. jobQueue may be nil when
// notification dispatch is disabled.
func NewWorkflow(
	engine Engine,
	poller *Poller,
	cache database.AnalysisCacheInterface,
	limiter database.RateLimiterInterface,
	analyses database.AnalysisRepositoryInterface,
	jobQueue queue.JobQueue,
	cacheTTL time.Duration,
	maxPerWindow int,
	logger *zap.Logger,
) *Workflow {
	return &Workflow{
		engine:    engine,
		poller:    poller,
		cache:     cache,
		limiter:   limiter,
		analyses:  analyses,
		jobQueue:  jobQueue,
		cacheTTL:  cacheTTL,
		maxPerWin: maxPerWindow,
		logger:    logger,
	}
}

// Analyze runs the full workflow for a brand name. userID is nil for
// anonymous callers, who get results but no persistence or notification.
//
// Cache hits return before the rate limit check, so repeat lookups of
// popular brands never consume a caller's quota.
func (w *Workflow) Analyze(ctx context.Context, brandName string, userID *uuid.UUID) (*Outcome, error) {
	brandKey := models.BrandKey(brandName)

	cached, err := w.cache.Lookup(ctx, brandKey)
	if err != nil {
		// Cache trouble must not block analysis, treat as a miss
		w.logger.Warn("analysis_cache_lookup_failed",
			zap.String("brand_key", brandKey),
			zap.Error(err),
		)
	}
	if cached != nil {
		w.logger.Info("analysis_cache_hit", zap.String("brand_key", brandKey))
		return &Outcome{Result: cached, Cached: true}, nil
	}

	if userID != nil {
		allowed, err := w.limiter.CheckAndIncrement(ctx, *userID, RateLimitAction, w.maxPerWin, RateLimitWindow)
		if err != nil {
			return nil, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return nil, ErrRateLimited
		}
	}

	jobID, err := w.engine.SubmitJob(ctx, brandName)
	if err != nil {
		return nil, err
	}
	w.logger.Info("analysis_job_submitted",
		zap.String("job_id", jobID),
		zap.String("brand_key", brandKey),
	)

	result, err := w.poller.WaitForResult(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if err := w.cache.Store(ctx, brandKey, result, w.cacheTTL); err != nil {
		// Best effort, the caller still gets their result
		w.logger.Warn("analysis_cache_store_failed",
			zap.String("brand_key", brandKey),
			zap.Error(err),
		)
	}

	outcome := &Outcome{Result: result, Cached: false}

	if userID != nil {
		analysis := &models.Analysis{
			ID:              uuid.New(),
			UserID:          *userID,
			BrandName:       result.BrandName,
			OverallScore:    result.OverallScore,
			AISystems:       result.AISystems,
			Findings:        result.Findings,
			Recommendations: result.Recommendations,
			Status:          models.AnalysisStatusCompleted,
		}
		if analysis.BrandName == "" {
			analysis.BrandName = brandName
		}

		if err := w.analyses.Create(ctx, analysis); err != nil {
			// Persistence is best effort, log and return the result anyway
			w.logger.Error("analysis_persist_failed",
				zap.String("user_id", userID.String()),
				zap.String("brand_key", brandKey),
				zap.Error(err),
			)
		} else {
			outcome.AnalysisID = &analysis.ID
			w.notifyCompletion(*userID, analysis.ID, analysis.BrandName)
		}
	}

	return outcome, nil
}

// notifyCompletion enqueues the completion email without blocking the
// caller. Dispatch failures are logged and swallowed.
func (w *Workflow) notifyCompletion(userID, analysisID uuid.UUID, brandName string) {
	if w.jobQueue == nil {
		return
	}

	job := queue.NewAnalysisCompleteJob(userID, analysisID, brandName)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := w.jobQueue.Enqueue(ctx, job); err != nil {
			w.logger.Warn("notification_enqueue_failed",
				zap.String("user_id", userID.String()),
				zap.String("analysis_id", analysisID.String()),
				zap.Error(err),
			)
		}
	}()
}
