package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultCopywriterModel is the default model for email copy
	DefaultCopywriterModel = "gpt-4o-mini"
	// copywriterTimeout bounds a single completion call
	copywriterTimeout = 15 * time.Second
	// maxIntroLength caps the generated opener so templates stay tidy
	maxIntroLength = 300
)

// Copywriter generates a short personalized opener for notification
// emails. It is optional; callers fall back to the static template copy
// when generation fails or no copywriter is configured.
type Copywriter struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewCopywriter creates a copywriter. baseURL and model may be empty
// to use the OpenAI defaults.
func NewCopywriter(apiKey, baseURL, model string, logger *zap.Logger) *Copywriter {
	if model == "" {
		model = DefaultCopywriterModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: copywriterTimeout}),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Copywriter{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

// AnalysisIntro writes a one-sentence opener for an analysis completion
// email. score may be nil when the engine reported no overall score.
func (c *Copywriter) AnalysisIntro(ctx context.Context, brandName string, score *int) (string, error) {
	scoreText := "no overall score"
	if score != nil {
		scoreText = fmt.Sprintf("an overall AI visibility score of %d out of 100", *score)
	}

	prompt := fmt.Sprintf(
		"Write one friendly sentence telling the reader that the AI visibility analysis for the brand %q is finished, with %s. Plain text, no emoji, no markdown.",
		brandName, scoreText,
	)

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You write short, warm product notification copy. Respond with the sentence only."),
			openai.UserMessage(prompt),
		},
	}

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("copywriter completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	intro := strings.TrimSpace(resp.Choices[0].Message.Content)
	if intro == "" {
		return "", errors.New("empty copy in response")
	}
	if len(intro) > maxIntroLength {
		intro = intro[:maxIntroLength]
	}

	return intro, nil
}
