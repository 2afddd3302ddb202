package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/models"
	"github.com/brainindex/brainindex-api/internal/queue"
)

type fakeRecentLister struct {
	analyses []*models.Analysis
	err      error
}

func (f *fakeRecentLister) GetCreatedSince(_ context.Context, _ time.Time) ([]*models.Analysis, error) {
	return f.analyses, f.err
}

type recordingQueue struct {
	jobs    []*queue.Job
	failFor map[uuid.UUID]bool
}

func (q *recordingQueue) Enqueue(_ context.Context, job *queue.Job) error {
	if q.failFor[job.UserID] {
		return errors.New("broker unreachable")
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Consume(context.Context, int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (q *recordingQueue) Close() error { return nil }

func (q *recordingQueue) HealthCheck(context.Context) error { return nil }

func TestSummarizer_EnqueueSummaries(t *testing.T) {
	t.Parallel()

	alice := uuid.New()
	bob := uuid.New()

	lister := &fakeRecentLister{analyses: []*models.Analysis{
		{UserID: alice, BrandName: "Acme"},
		{UserID: alice, BrandName: "Globex"},
		{UserID: bob, BrandName: "Initech"},
	}}
	q := &recordingQueue{}

	summarizer := NewSummarizer(lister, q, zap.NewNop())
	enqueued, err := summarizer.EnqueueSummaries(context.Background())
	if err != nil {
		t.Fatalf("EnqueueSummaries: %v", err)
	}
	if enqueued != 2 {
		t.Errorf("expected 2 jobs (one per user), got %d", enqueued)
	}
	for _, job := range q.jobs {
		if job.Type != queue.JobTypeWeeklySummary {
			t.Errorf("unexpected job type %s", job.Type)
		}
	}
}

func TestSummarizer_EnqueueSummaries_NoActivity(t *testing.T) {
	t.Parallel()

	summarizer := NewSummarizer(&fakeRecentLister{}, &recordingQueue{}, zap.NewNop())
	enqueued, err := summarizer.EnqueueSummaries(context.Background())
	if err != nil {
		t.Fatalf("EnqueueSummaries: %v", err)
	}
	if enqueued != 0 {
		t.Errorf("expected 0 jobs, got %d", enqueued)
	}
}

func TestSummarizer_EnqueueSummaries_ListError(t *testing.T) {
	t.Parallel()

	summarizer := NewSummarizer(&fakeRecentLister{err: errors.New("db down")}, &recordingQueue{}, zap.NewNop())
	if _, err := summarizer.EnqueueSummaries(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestSummarizer_EnqueueSummaries_PartialFailure(t *testing.T) {
	t.Parallel()

	alice := uuid.New()
	bob := uuid.New()

	lister := &fakeRecentLister{analyses: []*models.Analysis{
		{UserID: alice, BrandName: "Acme"},
		{UserID: bob, BrandName: "Initech"},
	}}
	q := &recordingQueue{failFor: map[uuid.UUID]bool{alice: true}}

	summarizer := NewSummarizer(lister, q, zap.NewNop())
	enqueued, err := summarizer.EnqueueSummaries(context.Background())
	if err != nil {
		t.Fatalf("one failed enqueue should not abort the run: %v", err)
	}
	if enqueued != 1 {
		t.Errorf("expected 1 successful enqueue, got %d", enqueued)
	}
	if len(q.jobs) != 1 || q.jobs[0].UserID != bob {
		t.Errorf("expected bob's job only, got %+v", q.jobs)
	}
}
