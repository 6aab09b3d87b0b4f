package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/gitdigest/commit-digest/internal/digest"
	"github.com/gitdigest/commit-digest/internal/window"
)

// FetchRepoCommits aggregates the tracked account's commits in one
// repository over the reporting window. Every branch is walked and commit
// SHAs are merged into a single set, so a commit reachable from several
// branches is counted once. Each retained SHA costs one detail request for
// its file list and line stats; a failed detail lookup drops that commit
// only, never the repository or the run.
func (c *Client) FetchRepoCommits(ctx context.Context, fullName string, win window.Window, account digest.Identity, maxCommits int) ([]digest.CommitRecord, error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return nil, fmt.Errorf("malformed repository full name %q", fullName)
	}

	branches := c.listBranches(ctx, owner, name)
	if len(branches) == 0 {
		// No listable branches: query the default history directly.
		branches = []string{""}
	}

	seen := make(map[string]struct{})
	var order []string
	capped := false

	for _, branch := range branches {
		c.listBranchCommits(ctx, owner, name, branch, win, account, func(sha string) {
			if _, dup := seen[sha]; dup {
				return
			}
			if len(order) >= maxCommits {
				capped = true
				return
			}
			seen[sha] = struct{}{}
			order = append(order, sha)
		})
	}

	if capped {
		c.log.Warn().Str("repo", fullName).Int("cap", maxCommits).
			Msg("per-repo commit cap reached, digest will be partial")
	}

	records := make([]digest.CommitRecord, 0, len(order))
	dropped := 0
	for _, sha := range order {
		rec, err := c.fetchCommitDetail(ctx, owner, name, fullName, sha)
		if err != nil {
			dropped++
			c.log.Warn().Err(err).Str("repo", fullName).Str("sha", sha).
				Msg("commit detail lookup failed, dropping commit")
			continue
		}
		records = append(records, rec)
	}

	c.log.Debug().Str("repo", fullName).Int("branches", len(branches)).
		Int("commits", len(records)).Int("dropped", dropped).
		Msg("repository fetch complete")
	return records, nil
}

// listBranches enumerates branch names. A failed page ends the listing; a
// failure on the first page yields an empty slice, which callers treat as
// "fall back to the default history".
func (c *Client) listBranches(ctx context.Context, owner, name string) []string {
	var branches []string
	for page := 1; ; page++ {
		var batch []*github.Branch
		err := c.withRateLimitPause(ctx, "list_branches", func() error {
			var listErr error
			batch, _, listErr = c.gh.Repositories.ListBranches(ctx, owner, name, &github.BranchListOptions{
				ListOptions: github.ListOptions{Page: page, PerPage: c.pageSize},
			})
			return listErr
		})
		if err != nil {
			c.log.Warn().Err(err).Str("repo", owner+"/"+name).Int("page", page).
				Msg("branch listing failed, treating as exhausted")
			break
		}
		for _, b := range batch {
			branches = append(branches, b.GetName())
		}
		if len(batch) < c.pageSize {
			break
		}
	}
	return branches
}

// listBranchCommits pages through one branch's commits constrained to the
// window and author, invoking keep for every commit attributed to the
// tracked account. branch may be empty to query the default history.
func (c *Client) listBranchCommits(ctx context.Context, owner, name, branch string, win window.Window, account digest.Identity, keep func(sha string)) {
	for page := 1; ; page++ {
		var batch []*github.RepositoryCommit
		err := c.withRateLimitPause(ctx, "list_commits", func() error {
			var listErr error
			batch, _, listErr = c.gh.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
				SHA:         branch,
				Author:      account.Login,
				Since:       win.UTCStart(),
				Until:       win.UTCEnd(),
				ListOptions: github.ListOptions{Page: page, PerPage: c.pageSize},
			})
			return listErr
		})
		if err != nil {
			// Empty branches and transient faults both land here; either
			// way the branch contributes what was seen so far.
			c.log.Debug().Err(err).Str("repo", owner+"/"+name).Str("branch", branch).
				Msg("commit listing ended early")
			return
		}
		for _, commit := range batch {
			if !digest.MatchesAuthor(authorshipOf(commit), account) {
				continue
			}
			keep(commit.GetSHA())
		}
		if len(batch) < c.pageSize {
			return
		}
	}
}

// fetchCommitDetail issues the per-commit detail request and normalizes the
// result into a CommitRecord.
func (c *Client) fetchCommitDetail(ctx context.Context, owner, name, fullName, sha string) (digest.CommitRecord, error) {
	var detail *github.RepositoryCommit
	err := c.withRateLimitPause(ctx, "get_commit", func() error {
		var getErr error
		detail, _, getErr = c.gh.Repositories.GetCommit(ctx, owner, name, sha, nil)
		return getErr
	})
	if err != nil {
		return digest.CommitRecord{}, err
	}

	files := make([]string, 0, len(detail.Files))
	for _, f := range detail.Files {
		files = append(files, f.GetFilename())
	}

	return digest.NewCommitRecord(
		fullName,
		sha,
		detail.GetCommit().GetMessage(),
		files,
		detail.GetStats().GetAdditions(),
		detail.GetStats().GetDeletions(),
	), nil
}

func authorshipOf(commit *github.RepositoryCommit) digest.CommitAuthorship {
	return digest.CommitAuthorship{
		AuthorLogin:    commit.GetAuthor().GetLogin(),
		AuthorEmail:    commit.GetCommit().GetAuthor().GetEmail(),
		CommitterLogin: commit.GetCommitter().GetLogin(),
		CommitterEmail: commit.GetCommit().GetCommitter().GetEmail(),
	}
}
