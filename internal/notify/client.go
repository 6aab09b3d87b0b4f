// Package notify delivers the digest summary to a Teams webhook, selecting
// the payload schema from the webhook URL shape and degrading to a simpler
// payload when the endpoint keeps rejecting the full card.
package notify

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const (
	maxAttempts = 3
	baseDelay   = 2 * time.Second

	// rateLimitFactor stretches the base delay when the endpoint answers
	// with a 429 before the exponential doubling applies.
	rateLimitFactor = 3
)

// Outcome reports how a delivery went. Delivery failure is never fatal to
// the run; the outcome exists for logging and exit-status decisions.
type Outcome struct {
	Delivered  bool
	StatusCode int
	Attempts   int
}

// Client posts digest cards to a single webhook endpoint.
type Client struct {
	url     string
	dialect Dialect
	http    *http.Client
	log     zerolog.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewClient builds a delivery client for the webhook URL. The payload
// dialect is detected once from the URL shape; ambiguous URLs get the
// workflow schema.
func NewClient(webhookURL string, log zerolog.Logger) *Client {
	dialect := ClassifyWebhook(webhookURL)
	if dialect == DialectUnknown {
		log.Debug().Str("url_host", hostOf(webhookURL)).Msg("webhook dialect unknown, defaulting to workflow schema")
		dialect = DialectWorkflow
	}

	return &Client{
		url:     webhookURL,
		dialect: dialect,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
		sleep:   sleepCtx,
	}
}

// Dialect returns the schema the client will post.
func (c *Client) Dialect() Dialect { return c.dialect }

// PrimaryPayload renders the full card without sending it. Used by dry runs.
func (c *Client) PrimaryPayload(summary string, meta Meta) ([]byte, error) {
	return buildPrimary(c.dialect, summary, meta)
}

// Deliver posts the primary card with retry and backoff, then falls back to
// the simplified payload as a single extra attempt if every primary attempt
// failed. Any 2xx response is success.
func (c *Client) Deliver(ctx context.Context, summary string, meta Meta) Outcome {
	outcome := Outcome{}

	payload, err := buildPrimary(c.dialect, summary, meta)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to build primary payload")
		return outcome
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		outcome.Attempts++
		status, postErr := c.post(ctx, payload)
		outcome.StatusCode = status

		if postErr == nil && status >= 200 && status < 300 {
			outcome.Delivered = true
			c.log.Info().Int("status", status).Int("attempt", attempt).Msg("digest delivered")
			return outcome
		}

		c.log.Warn().Err(postErr).Int("status", status).Int("attempt", attempt).Msg("webhook delivery attempt failed")

		if attempt < maxAttempts {
			delay := backoffDelay(attempt, status)
			if err := c.sleep(ctx, delay); err != nil {
				return outcome
			}
		}
	}

	// Primary card exhausted; send the simplified payload exactly once.
	fallback, err := buildFallback(c.dialect, summary, meta)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to build fallback payload")
		return outcome
	}

	outcome.Attempts++
	status, postErr := c.post(ctx, fallback)
	outcome.StatusCode = status
	if postErr == nil && status >= 200 && status < 300 {
		outcome.Delivered = true
		c.log.Info().Int("status", status).Msg("fallback payload delivered")
		return outcome
	}

	c.log.Error().Err(postErr).Int("status", status).Msg("fallback payload delivery failed")
	return outcome
}

// backoffDelay computes the wait before the next attempt: 2s doubling per
// attempt, with the base tripled when the endpoint is rate limiting.
func backoffDelay(attempt, status int) time.Duration {
	base := baseDelay
	if status == http.StatusTooManyRequests {
		base *= rateLimitFactor
	}
	return base << (attempt - 1)
}

func (c *Client) post(ctx context.Context, payload []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused across attempts.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func hostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Host
	}
	return ""
}
