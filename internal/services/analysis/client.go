package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTier is the analysis tier requested when none is configured
	DefaultTier = "standard"
	// DefaultRequestTimeout bounds a single HTTP call to the engine
	DefaultRequestTimeout = 30 * time.Second
)

// Engine is the interface to the remote brand-analysis engine.
// Enables mock implementations in workflow tests.
type Engine interface {
	// SubmitJob submits a brand for analysis and returns the job ID
	SubmitJob(ctx context.Context, brandName string) (string, error)

	// GetJob fetches the current state of a submitted job
	GetJob(ctx context.Context, jobID string) (*JobState, error)
}

// Client talks to the brand-analysis engine over HTTP
type Client struct {
	baseURL    string
	apiKey     string
	tier       string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new engine client. apiKey may be empty for
// engines that do not require authentication.
func NewClient(baseURL, apiKey, tier string, logger *zap.Logger) *Client {
	if tier == "" {
		tier = DefaultTier
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		tier:       tier,
		httpClient: &http.Client{Timeout: DefaultRequestTimeout},
		logger:     logger,
	}
}

// SubmitJob submits a brand for analysis. A failed submission is not
// retried; the caller gets a SubmissionError and decides what to do.
func (c *Client) SubmitJob(ctx context.Context, brandName string) (string, error) {
	body, err := json.Marshal(submitRequest{
		Input: brandName,
		Tier:  c.tier,
	})
	if err != nil {
		return "", &SubmissionError{Message: "failed to encode request", Err: err}
	}

	url := c.baseURL + "/analyze/jobs"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &SubmissionError{Message: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &SubmissionError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusCreated {
		msg := readErrorBody(resp.Body)
		c.logger.Warn("analysis_job_submission_rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return "", &SubmissionError{StatusCode: resp.StatusCode, Message: msg}
	}

	var submitted submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&submitted); err != nil {
		return "", &SubmissionError{Message: "failed to decode response", Err: err}
	}
	if submitted.JobID == "" {
		return "", &SubmissionError{Message: "engine returned empty job id"}
	}

	return submitted.JobID, nil
}

// GetJob fetches the current state of a submitted job
func (c *Client) GetJob(ctx context.Context, jobID string) (*JobState, error) {
	url := c.baseURL + "/analyze/jobs/" + jobID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("engine returned status %d for job %s: %s", resp.StatusCode, jobID, readErrorBody(resp.Body))
	}

	var state JobState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode job state: %w", err)
	}
	if state.JobID == "" {
		state.JobID = jobID
	}

	return &state, nil
}

// readErrorBody extracts a short error message from a non-200 response
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(body) == 0 {
		return "no response body"
	}

	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}

	return strings.TrimSpace(string(body))
}

var _ Engine = (*Client)(nil)
