// Package summarize turns an aggregated commit digest into a short textual
// summary via an OpenAI-compatible chat completion API, with a deterministic
// fallback so the pipeline never fails on summarization alone.
package summarize

import (
	"context"
	"fmt"

	"github.com/gitdigest/commit-digest/internal/digest"
)

// NoActivityText is the fixed summary used when the window contains no
// commits. It is a real summary, not a fallback.
const NoActivityText = "No commit activity during this period."

// Result is the summary handed to the delivery stage. Fallback marks the
// deterministic digest used when the remote call could not succeed.
type Result struct {
	Text     string
	Fallback bool
}

// Summarizer produces a summary for an aggregated set of commits.
type Summarizer interface {
	Summarize(ctx context.Context, agg *digest.Aggregate, periodLabel string) Result
}

// fallbackResult builds the deterministic one-line digest used when the
// summarization API is unavailable.
func fallbackResult(agg *digest.Aggregate, periodLabel string) Result {
	return Result{
		Text: fmt.Sprintf("%d commits across %d repositories during %s. (AI summary unavailable)",
			agg.CommitCount(), agg.RepoCount(), periodLabel),
		Fallback: true,
	}
}
