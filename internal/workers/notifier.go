package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/queue"
	"github.com/brainindex/brainindex-api/internal/services/email"
)

// summaryWindow is how far back the weekly summary looks
const summaryWindow = 7 * 24 * time.Hour

// PreferenceReader loads a user's email opt-in flags
type PreferenceReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.EmailPreference, error)
}

// ProfileReader resolves a user's profile for their email address
type ProfileReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

// AnalysisReader loads analyses referenced by notification jobs
type AnalysisReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	GetByUserIDSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.Analysis, error)
}

// IntroWriter generates an optional personalized email opener
type IntroWriter interface {
	AnalysisIntro(ctx context.Context, brandName string, score *int) (string, error)
}

// Notifier processes email notification jobs: analysis completion
// notices and weekly summaries. Opted-out users are skipped silently.
type Notifier struct {
	prefs      PreferenceReader
	profiles   ProfileReader
	analyses   AnalysisReader
	composer   *email.Composer
	sender     email.Sender
	copywriter IntroWriter // optional, nil disables AI copy
	logger     *zap.Logger
}

// NewNotifier creates a notifier. copywriter may be nil; the templates
// then use their static copy.
func NewNotifier(
	prefs PreferenceReader,
	profiles ProfileReader,
	analyses AnalysisReader,
	composer *email.Composer,
	sender email.Sender,
	copywriter IntroWriter,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		prefs:      prefs,
		profiles:   profiles,
		analyses:   analyses,
		composer:   composer,
		sender:     sender,
		copywriter: copywriter,
		logger:     logger,
	}
}

// ProcessJob handles one queued message, acking or nacking it based on
// the outcome. Permanent failures go to the DLQ; jobs with retry budget
// left are requeued.
func (n *Notifier) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if !job.ShouldProcess() {
		if ackErr := msg.Nack(true); ackErr != nil {
			n.logger.Warn("notifier_requeue_failed", zap.Error(ackErr))
		}
		return nil
	}

	var err error
	switch job.Type {
	case queue.JobTypeAnalysisComplete:
		err = n.processAnalysisComplete(ctx, job)
	case queue.JobTypeWeeklySummary:
		err = n.processWeeklySummary(ctx, job)
	default:
		// Unknown job type, send to DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			n.logger.Warn("notifier_nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	if err != nil {
		if job.CanRetry() {
			if nackErr := msg.Nack(true); nackErr != nil {
				n.logger.Warn("notifier_requeue_failed", zap.Error(nackErr))
			}
		} else {
			if nackErr := msg.Nack(false); nackErr != nil {
				n.logger.Warn("notifier_nack_failed", zap.Error(nackErr))
			}
		}
		return fmt.Errorf("failed to process %s job: %w", job.Type, err)
	}

	if ackErr := msg.Ack(); ackErr != nil {
		return fmt.Errorf("failed to ack job: %w", ackErr)
	}
	return nil
}

// processAnalysisComplete sends the analysis completion notice
func (n *Notifier) processAnalysisComplete(ctx context.Context, job *queue.Job) error {
	if job.AnalysisID == nil {
		return fmt.Errorf("analysis_id is required for analysis complete job")
	}

	prefs, err := n.prefs.GetByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load email preferences: %w", err)
	}
	if !prefs.AnalysisComplete {
		n.logger.Info("notification_skipped_opt_out",
			zap.String("user_id", job.UserID.String()),
			zap.String("type", string(job.Type)),
		)
		return nil
	}

	profile, err := n.profiles.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile.Email == "" {
		n.logger.Warn("notification_skipped_no_email", zap.String("user_id", job.UserID.String()))
		return nil
	}

	analysis, err := n.analyses.GetByID(ctx, *job.AnalysisID)
	if err != nil {
		return fmt.Errorf("failed to load analysis: %w", err)
	}
	if analysis.UserID != job.UserID {
		return fmt.Errorf("analysis does not belong to user")
	}

	data := email.AnalysisCompleteData{
		BrandName:    analysis.BrandName,
		OverallScore: analysis.OverallScore,
		CompletedAt:  analysis.CreatedAt,
	}

	if n.copywriter != nil {
		intro, err := n.copywriter.AnalysisIntro(ctx, analysis.BrandName, analysis.OverallScore)
		if err != nil {
			// AI copy is a nice-to-have, fall back to the template text
			n.logger.Warn("copywriter_failed",
				zap.String("brand_name", analysis.BrandName),
				zap.Error(err),
			)
		} else {
			data.Intro = intro
		}
	}

	subject, html, err := n.composer.AnalysisComplete(data)
	if err != nil {
		return fmt.Errorf("failed to compose email: %w", err)
	}

	if _, err := n.sender.Send(ctx, profile.Email, subject, html); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("analysis_complete_notification_sent",
		zap.String("user_id", job.UserID.String()),
		zap.String("analysis_id", job.AnalysisID.String()),
	)
	return nil
}

// processWeeklySummary sends one user's weekly report. Users with no
// recent analyses get nothing.
func (n *Notifier) processWeeklySummary(ctx context.Context, job *queue.Job) error {
	prefs, err := n.prefs.GetByUserID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load email preferences: %w", err)
	}
	if !prefs.WeeklySummary {
		n.logger.Info("notification_skipped_opt_out",
			zap.String("user_id", job.UserID.String()),
			zap.String("type", string(job.Type)),
		)
		return nil
	}

	profile, err := n.profiles.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile.Email == "" {
		n.logger.Warn("notification_skipped_no_email", zap.String("user_id", job.UserID.String()))
		return nil
	}

	analyses, err := n.analyses.GetByUserIDSince(ctx, job.UserID, time.Now().Add(-summaryWindow))
	if err != nil {
		return fmt.Errorf("failed to load recent analyses: %w", err)
	}
	if len(analyses) == 0 {
		n.logger.Info("weekly_summary_skipped_no_activity", zap.String("user_id", job.UserID.String()))
		return nil
	}

	data := summarize(analyses)

	subject, html, err := n.composer.WeeklySummary(data)
	if err != nil {
		return fmt.Errorf("failed to compose email: %w", err)
	}

	if _, err := n.sender.Send(ctx, profile.Email, subject, html); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("weekly_summary_sent",
		zap.String("user_id", job.UserID.String()),
		zap.Int("total_analyses", data.TotalAnalyses),
	)
	return nil
}

// summarize aggregates a week of analyses into summary stats. Missing
// scores count as zero, matching how the dashboard reports averages.
func summarize(analyses []*models.Analysis) email.WeeklySummaryData {
	total := len(analyses)
	sum := 0
	top := analyses[0]
	for _, a := range analyses {
		if a.OverallScore != nil {
			sum += *a.OverallScore
		}
		if scoreOrZero(a.OverallScore) > scoreOrZero(top.OverallScore) {
			top = a
		}
	}

	avg := float64(sum) / float64(total)

	return email.WeeklySummaryData{
		TotalAnalyses: total,
		AverageScore:  &avg,
		TopBrandName:  top.BrandName,
		TopBrandScore: top.OverallScore,
	}
}

func scoreOrZero(score *int) int {
	if score == nil {
		return 0
	}
	return *score
}
