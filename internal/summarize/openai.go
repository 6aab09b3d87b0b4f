package summarize

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/gitdigest/commit-digest/internal/digest"
)

const (
	systemPrompt = "You summarize a developer's daily commit activity. " +
		"Be concrete about what changed. Deduplicate near-identical points, " +
		"group related changes together, and order items by significance. " +
		"Output short markdown bullet points, no prefatory text."

	maxAttempts = 3
	baseDelay   = 2 * time.Second
	temperature = 0.2
)

// OpenAIClient implements Summarizer against any OpenAI-compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewOpenAIClient creates a summarizer client. baseURL may be empty for the
// default OpenAI endpoint.
func NewOpenAIClient(apiKey, baseURL, model string, log zerolog.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Summarize renders the digest and submits it for summarization. Up to three
// attempts with 2s/4s/8s backoff; quota responses retry on the same path,
// authentication errors abort immediately. Exhausted retries or a
// non-retryable error yield the deterministic fallback, never an error.
func (c *OpenAIClient) Summarize(ctx context.Context, agg *digest.Aggregate, periodLabel string) Result {
	if agg.CommitCount() == 0 {
		c.log.Info().Msg("no commits in window, skipping summarization call")
		return Result{Text: NoActivityText, Fallback: false}
	}

	userPrompt := "Commit activity for " + periodLabel + ":\n\n" + digest.RenderDigest(agg)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := baseDelay << (attempt - 2)
			c.log.Debug().Int("attempt", attempt).Dur("delay", delay).Msg("summarization retry backoff")
			if err := c.sleep(ctx, delay); err != nil {
				return redacted(fallbackResult(agg, periodLabel))
			}
		}

		text, err := c.complete(ctx, userPrompt)
		if err == nil {
			return redacted(Result{Text: text, Fallback: false})
		}
		lastErr = err

		if !isRetryable(err) {
			c.log.Error().Err(err).Msg("summarization failed with non-retryable error")
			return redacted(fallbackResult(agg, periodLabel))
		}
		c.log.Warn().Err(err).Int("attempt", attempt).Msg("summarization attempt failed")
	}

	c.log.Error().Err(lastErr).Int("attempts", maxAttempts).Msg("summarization retries exhausted, using fallback")
	return redacted(fallbackResult(agg, periodLabel))
}

func (c *OpenAIClient) complete(ctx context.Context, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summarization API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// isRetryable classifies errors: rate limits and server faults retry,
// authentication errors do not.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return false
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// Transport-level failures are worth another attempt.
		return true
	}

	return true
}

func redacted(r Result) Result {
	r.Text = RedactSecrets(r.Text)
	return r
}
