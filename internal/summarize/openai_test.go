package summarize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitdigest/commit-digest/internal/digest"
)

func noSleep(context.Context, time.Duration) error { return nil }

func testClient(t *testing.T, handler http.Handler) (*OpenAIClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewOpenAIClient("test-key", server.URL+"/v1", "gpt-4o-mini", zerolog.Nop())
	c.sleep = noSleep
	return c, server
}

func sampleAggregate() *digest.Aggregate {
	agg := digest.NewAggregate()
	agg.Add(digest.CommitRecord{Repository: "acme/api", SHA: "a1", Message: "add retries", Additions: 40, Deletions: 2})
	agg.Add(digest.CommitRecord{Repository: "acme/web", SHA: "b1", Message: "fix css", Additions: 3, Deletions: 3})
	return agg
}

func TestSummarizeSuccess(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"- Added retry logic to the API client."}}]}`))
	}))

	result := c.Summarize(context.Background(), sampleAggregate(), "2026-08-28")

	assert.False(t, result.Fallback)
	assert.Equal(t, "- Added retry logic to the API client.", result.Text)
}

func TestSummarizeZeroCommitsSkipsAPICall(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	result := c.Summarize(context.Background(), digest.NewAggregate(), "2026-08-28")

	assert.Equal(t, NoActivityText, result.Text)
	assert.False(t, result.Fallback)
	assert.Zero(t, calls.Load(), "no HTTP request expected for an empty window")
}

func TestSummarizePersistentFailureYieldsFallback(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))

	result := c.Summarize(context.Background(), sampleAggregate(), "2026-08-28")

	assert.True(t, result.Fallback)
	require.NotEmpty(t, result.Text)
	assert.Contains(t, result.Text, "2 commits across 2 repositories")
	assert.Contains(t, result.Text, "2026-08-28")
	assert.Equal(t, int32(3), calls.Load(), "expected exactly three attempts")
}

func TestSummarizeAuthErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))

	result := c.Summarize(context.Background(), sampleAggregate(), "2026-08-28")

	assert.True(t, result.Fallback)
	assert.Equal(t, int32(1), calls.Load(), "auth errors must abort immediately")
}

func TestSummarizeRedactsSecretLikeOutput(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"- Rotated key ghp_ABCDEFGHIJKLMNOPQRSTuvwx in CI."}}]}`))
	}))

	result := c.Summarize(context.Background(), sampleAggregate(), "2026-08-28")

	assert.NotContains(t, result.Text, "ghp_")
	assert.Contains(t, result.Text, "[REDACTED]")
}
