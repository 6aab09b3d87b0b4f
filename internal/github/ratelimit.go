package github

import (
	"context"
	"errors"
	"time"

	"github.com/google/go-github/v66/github"
)

// resetBuffer pads the computed wait so a resumed call does not race the
// quota reset.
const resetBuffer = 2 * time.Second

// rateLimitWait computes the pause for a rate-limit error returned by
// go-github. The second return is false when err is not rate-limit related.
//
// Some API versions omit the reset timestamp entirely; a missing or elapsed
// reset falls back to the caller-supplied exponential delay rather than
// being treated as an error.
func rateLimitWait(err error, now time.Time, fallback time.Duration) (time.Duration, bool) {
	var limitErr *github.RateLimitError
	if errors.As(err, &limitErr) {
		reset := limitErr.Rate.Reset.Time
		if reset.IsZero() || !reset.After(now) {
			return fallback, true
		}
		return reset.Sub(now) + resetBuffer, true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		if abuseErr.RetryAfter != nil && *abuseErr.RetryAfter > 0 {
			return *abuseErr.RetryAfter, true
		}
		return fallback, true
	}

	return 0, false
}

// withRateLimitPause runs fn, sleeping through quota exhaustion and
// retrying. When the computed wait exceeds maxRateLimitWait the step is
// abandoned and the rate-limit error is returned so the caller continues
// with partial data.
func (c *Client) withRateLimitPause(ctx context.Context, op string, fn func() error) error {
	delay := baseRateLimitDelay
	for {
		err := fn()
		wait, limited := rateLimitWait(err, time.Now(), delay)
		if !limited {
			return err
		}
		if wait > maxRateLimitWait {
			c.log.Warn().Str("op", op).Dur("wait", wait).
				Msg("rate-limit wait exceeds bound, abandoning step")
			return err
		}

		c.log.Info().Str("op", op).Dur("wait", wait).Msg("rate limited, pausing until reset")
		if sleepErr := c.sleep(ctx, wait); sleepErr != nil {
			return sleepErr
		}
		delay *= 2
	}
}
