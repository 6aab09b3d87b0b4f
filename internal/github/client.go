// Package github wraps the GitHub REST API for repository enumeration and
// commit aggregation.
package github

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	userAgent         = "commit-digest/1.0"
	transportRetries  = 3
	baseBackoffMs     = 1000
	requestTimeoutSec = 30

	// defaultPageSize is the listing page size. A full page means more data
	// may follow; a partial or empty page ends pagination.
	defaultPageSize = 100

	// maxRateLimitWait bounds how long a run may sleep waiting for quota
	// reset before abandoning the current enumeration step.
	maxRateLimitWait = 15 * time.Minute

	// baseRateLimitDelay seeds the exponential fallback used when a
	// rate-limited response carries no usable reset timestamp.
	baseRateLimitDelay = 2 * time.Second
)

// Client is the run-scoped GitHub API client. All iteration is sequential to
// keep rate-limit consumption predictable for a once-daily batch job.
type Client struct {
	gh       *github.Client
	log      zerolog.Logger
	pageSize int
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Client authenticated with the given bearer token. The
// underlying HTTP transport retries 5xx responses and honors rate-limit
// headers before go-github ever sees them.
func NewClient(ctx context.Context, token string, log zerolog.Logger) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})

	httpClient := &http.Client{
		Timeout: requestTimeoutSec * time.Second,
		Transport: &retryTransport{
			base: &oauth2.Transport{
				Source: ts,
				Base:   http.DefaultTransport,
			},
		},
	}

	gh := github.NewClient(httpClient)
	gh.UserAgent = userAgent

	return &Client{
		gh:       gh,
		log:      log,
		pageSize: defaultPageSize,
		sleep:    sleepCtx,
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

// Viewer resolves the authenticated principal's login. Failure here is an
// authentication fault and aborts the run.
func (c *Client) Viewer(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to resolve authenticated user (check GITHUB_TOKEN): %w", err)
	}
	return user.GetLogin(), nil
}

// retryTransport wraps an http.RoundTripper with retry logic for transient
// GitHub API failures.
type retryTransport struct {
	base http.RoundTripper
}

// RoundTrip retries 5xx responses with exponential backoff and rate-limited
// 403s after the advertised reset. Authorization failures return immediately.
func (rt *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= transportRetries; attempt++ {
		resp, err := rt.base.RoundTrip(req.Clone(req.Context()))
		if err != nil {
			lastErr = err
			if attempt < transportRetries {
				time.Sleep(transportBackoff(attempt))
			}
			continue
		}

		if isAuthFailure(resp) {
			return resp, nil
		}

		if resp.StatusCode == http.StatusForbidden && isRateLimited(resp) {
			if wait := rateLimitRetryAfter(resp); wait > 0 && wait <= maxRateLimitWait && attempt < transportRetries {
				resp.Body.Close()
				time.Sleep(wait)
				continue
			}
		}

		if resp.StatusCode >= 500 && attempt < transportRetries {
			resp.Body.Close()
			time.Sleep(transportBackoff(attempt))
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("GitHub API request failed after %d attempts: %w", transportRetries+1, lastErr)
}

// isRateLimited reports whether a 403 carries rate-limit evidence rather
// than a permission failure.
func isRateLimited(resp *http.Response) bool {
	if resp.Header.Get("Retry-After") != "" {
		return true
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// isAuthFailure reports auth-class responses that must never be retried.
func isAuthFailure(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusNotFound:
		return true
	case http.StatusForbidden:
		return !isRateLimited(resp)
	}
	return false
}

// rateLimitRetryAfter computes how long to wait before retrying a
// rate-limited response. Retry-After wins; otherwise the reset timestamp is
// used when present; zero means the caller should fall back to plain backoff.
func rateLimitRetryAfter(resp *http.Response) time.Duration {
	if raw := resp.Header.Get("Retry-After"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	if raw := resp.Header.Get("X-RateLimit-Reset"); raw != "" {
		if resetUnix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			until := time.Until(time.Unix(resetUnix, 0))
			if until > 0 {
				// Small buffer to avoid racing the reset.
				return until + 5*time.Second
			}
		}
	}

	return 0
}

func transportBackoff(attempt int) time.Duration {
	backoffMs := baseBackoffMs * int(math.Pow(2, float64(attempt)))
	return time.Duration(backoffMs) * time.Millisecond
}
