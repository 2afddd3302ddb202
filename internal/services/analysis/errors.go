package analysis

import (
	"errors"
	"fmt"
	"time"
)

// ErrRateLimited indicates the caller exceeded their analyze quota
var ErrRateLimited = errors.New("analyze rate limit exceeded")

// SubmissionError indicates the job could not be submitted to the
// brand-analysis engine. Submission is never retried.
type SubmissionError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("job submission failed (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("job submission failed: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// PollTimeoutError indicates the job did not finish within the polling budget
type PollTimeoutError struct {
	JobID    string
	Attempts int
	Waited   time.Duration
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("analysis job %s did not complete after %d polls (%s)", e.JobID, e.Attempts, e.Waited)
}

// JobFailedError indicates the engine reported the job as failed
type JobFailedError struct {
	JobID  string
	Reason string
}

func (e *JobFailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("analysis job %s failed", e.JobID)
	}
	return fmt.Sprintf("analysis job %s failed: %s", e.JobID, e.Reason)
}

// IsSubmissionError checks if an error is a submission failure
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}

// IsPollTimeout checks if an error is a polling timeout
func IsPollTimeout(err error) bool {
	var pe *PollTimeoutError
	return errors.As(err, &pe)
}

// IsJobFailed checks if an error is an engine-reported job failure
func IsJobFailed(err error) bool {
	var je *JobFailedError
	return errors.As(err, &je)
}
