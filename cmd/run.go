package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitdigest/commit-digest/internal/config"
	"github.com/gitdigest/commit-digest/internal/digest"
	"github.com/gitdigest/commit-digest/internal/github"
	"github.com/gitdigest/commit-digest/internal/logger"
	"github.com/gitdigest/commit-digest/internal/notify"
	"github.com/gitdigest/commit-digest/internal/summarize"
	"github.com/gitdigest/commit-digest/internal/window"
)

var (
	runDate string
	dryRun  bool
	verbose bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Aggregate, summarize and deliver the commit digest",
	Long: `Run executes the full pipeline once: resolve the reporting window,
enumerate accessible repositories, fetch and deduplicate the tracked author's
commits across all branches, summarize the activity, and post the digest card
to the configured webhook.`,
	RunE: runDigest,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runDate, "date", "", "Run as if today were this date (YYYY-MM-DD, report timezone)")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the card payload to stdout instead of posting it")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func runDigest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.LogFormat)

	loc, err := window.LoadZone(cfg.Timezone)
	if err != nil {
		return err
	}

	now := time.Now()
	if runDate != "" {
		parsed, parseErr := time.ParseInLocation("2006-01-02", runDate, loc)
		if parseErr != nil {
			return fmt.Errorf("invalid --date %q: %w", runDate, parseErr)
		}
		// Resolve the window as if running on the morning of that date.
		now = parsed.Add(9 * time.Hour)
	}

	win := window.Resolve(now, loc)
	log.Info().Str("period", win.Label()).Bool("extended", win.Extended).
		Time("since", win.UTCStart()).Time("until", win.UTCEnd()).
		Msg("reporting window resolved")

	gh := github.NewClient(ctx, cfg.GitHubToken, log)

	login, err := gh.Viewer(ctx)
	if err != nil {
		return err
	}
	account := digest.Identity{Login: cfg.Author, Email: cfg.AuthorEmail}
	if account.Login == "" {
		account.Login = login
	}
	log.Info().Str("viewer", login).Str("author", account.Login).Msg("authenticated")

	repos := gh.ListAccessibleRepos(ctx)

	agg := digest.NewAggregate()
	for _, repo := range repos {
		records, fetchErr := gh.FetchRepoCommits(ctx, repo, win, account, cfg.MaxCommitsPerRepo)
		if fetchErr != nil {
			log.Warn().Err(fetchErr).Str("repo", repo).Msg("skipping repository")
			continue
		}
		for _, rec := range records {
			agg.Add(rec)
		}
	}
	log.Info().Int("commits", agg.CommitCount()).Int("repos", agg.RepoCount()).
		Msg("commit aggregation complete")

	var summarizer summarize.Summarizer = summarize.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, log)
	result := summarizer.Summarize(ctx, agg, win.Label())
	if result.Text == "" {
		fmt.Fprintln(os.Stderr, "Empty summary produced, nothing to deliver")
		os.Exit(2)
	}
	if result.Fallback {
		log.Warn().Msg("using deterministic fallback summary")
	}

	meta := notify.Meta{
		CommitCount: agg.CommitCount(),
		RepoCount:   agg.RepoCount(),
		Period:      win.Label(),
		GeneratedAt: time.Now().In(loc),
	}

	deliverer := notify.NewClient(cfg.WebhookURL, log)

	if dryRun {
		payload, buildErr := deliverer.PrimaryPayload(result.Text, meta)
		if buildErr != nil {
			return fmt.Errorf("failed to render payload: %w", buildErr)
		}
		fmt.Println(string(payload))
		return nil
	}

	outcome := deliverer.Deliver(ctx, result.Text, meta)
	if !outcome.Delivered {
		// Delivery failure is never fatal: the summary is in the logs.
		log.Error().Int("status", outcome.StatusCode).Int("attempts", outcome.Attempts).
			Str("summary", result.Text).Msg("digest could not be delivered")
		return nil
	}

	log.Info().Int("attempts", outcome.Attempts).Msg("run complete")
	return nil
}
