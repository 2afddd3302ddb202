package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/brainindex/brainindex-api/internal/models"
)

// mockEngine returns scripted job states per poll attempt
type mockEngine struct {
	states  []*JobState
	errs    []error
	calls   int
	submits int
}

func (m *mockEngine) SubmitJob(_ context.Context, _ string) (string, error) {
	m.submits++
	return "job-test", nil
}

func (m *mockEngine) GetJob(_ context.Context, _ string) (*JobState, error) {
	i := m.calls
	m.calls++
	if i >= len(m.states) {
		i = len(m.states) - 1
	}
	var err error
	if i < len(m.errs) {
		err = m.errs[i]
	}
	return m.states[i], err
}

func newTestPoller(engine Engine, maxAttempts int) *Poller {
	p := NewPoller(engine, maxAttempts, time.Millisecond, zap.NewNop())
	p.sleep = func(context.Context, time.Duration) error { return nil }
	return p
}

func TestPoller_WaitForResult_CompletesEarly(t *testing.T) {
	t.Parallel()

	score := 85
	engine := &mockEngine{
		states: []*JobState{
			{JobID: "job-test", Status: JobStatusPending},
			{JobID: "job-test", Status: JobStatusProcessing},
			{JobID: "job-test", Status: JobStatusCompleted, Result: &models.AnalysisResult{BrandName: "Acme", OverallScore: &score}},
		},
	}

	poller := newTestPoller(engine, 30)
	result, err := poller.WaitForResult(context.Background(), "job-test")
	if err != nil {
		t.Fatalf("WaitForResult: %v", err)
	}
	if result.BrandName != "Acme" {
		t.Errorf("unexpected result: %+v", result)
	}
	if engine.calls != 3 {
		t.Errorf("expected early return after 3 polls, got %d", engine.calls)
	}
}

func TestPoller_WaitForResult_Timeout(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{
		states: []*JobState{{JobID: "job-test", Status: JobStatusProcessing}},
	}

	poller := newTestPoller(engine, 5)
	_, err := poller.WaitForResult(context.Background(), "job-test")
	if !IsPollTimeout(err) {
		t.Fatalf("expected PollTimeoutError, got %v", err)
	}

	var pe *PollTimeoutError
	if errors.As(err, &pe) && pe.Attempts != 5 {
		t.Errorf("expected 5 attempts, got %d", pe.Attempts)
	}
	if engine.calls != 5 {
		t.Errorf("expected exactly 5 polls, got %d", engine.calls)
	}
}

func TestPoller_WaitForResult_JobFailed(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{
		states: []*JobState{
			{JobID: "job-test", Status: JobStatusPending},
			{JobID: "job-test", Status: JobStatusFailed, Error: "brand not found"},
		},
	}

	poller := newTestPoller(engine, 30)
	_, err := poller.WaitForResult(context.Background(), "job-test")
	if !IsJobFailed(err) {
		t.Fatalf("expected JobFailedError, got %v", err)
	}

	var je *JobFailedError
	if errors.As(err, &je) && je.Reason != "brand not found" {
		t.Errorf("unexpected reason: %s", je.Reason)
	}
	if engine.calls != 2 {
		t.Errorf("expected failure to stop polling after 2 polls, got %d", engine.calls)
	}
}

func TestPoller_WaitForResult_CompletedWithoutResult(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{
		states: []*JobState{{JobID: "job-test", Status: JobStatusCompleted}},
	}

	poller := newTestPoller(engine, 30)
	_, err := poller.WaitForResult(context.Background(), "job-test")
	if !IsJobFailed(err) {
		t.Fatalf("expected JobFailedError for completed job without result, got %v", err)
	}
}

func TestPoller_WaitForResult_TransientErrorsConsumeAttempts(t *testing.T) {
	t.Parallel()

	score := 50
	engine := &mockEngine{
		states: []*JobState{
			nil,
			{JobID: "job-test", Status: JobStatusCompleted, Result: &models.AnalysisResult{BrandName: "Acme", OverallScore: &score}},
		},
		errs: []error{errors.New("connection reset")},
	}

	poller := newTestPoller(engine, 30)
	result, err := poller.WaitForResult(context.Background(), "job-test")
	if err != nil {
		t.Fatalf("WaitForResult: %v", err)
	}
	if result == nil || result.BrandName != "Acme" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestPoller_WaitForResult_ContextCancelled(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{
		states: []*JobState{{JobID: "job-test", Status: JobStatusProcessing}},
	}

	poller := NewPoller(engine, 30, time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := poller.WaitForResult(ctx, "job-test")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewPoller_Defaults(t *testing.T) {
	t.Parallel()

	poller := NewPoller(&mockEngine{}, 0, 0, zap.NewNop())
	if poller.maxAttempts != DefaultPollMaxAttempts {
		t.Errorf("expected default max attempts %d, got %d", DefaultPollMaxAttempts, poller.maxAttempts)
	}
	if poller.interval != DefaultPollInterval {
		t.Errorf("expected default interval %s, got %s", DefaultPollInterval, poller.interval)
	}
}
