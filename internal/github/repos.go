package github

import (
	"context"

	"github.com/google/go-github/v66/github"
)

// ListAccessibleRepos enumerates every repository the authenticated
// principal can reach: personal and collaborator repositories first, then
// each organization's repositories. Results are deduplicated by full name
// since a repository is often visible through both paths.
//
// A failed page is treated as end of pagination for that listing rather than
// retried, keeping the run bounded in time.
func (c *Client) ListAccessibleRepos(ctx context.Context) []string {
	seen := make(map[string]struct{})
	var repos []string

	add := func(fullName string) {
		if fullName == "" {
			return
		}
		if _, dup := seen[fullName]; dup {
			return
		}
		seen[fullName] = struct{}{}
		repos = append(repos, fullName)
	}

	for page := 1; ; page++ {
		var batch []*github.Repository
		err := c.withRateLimitPause(ctx, "list_user_repos", func() error {
			var listErr error
			batch, _, listErr = c.gh.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
				Affiliation: "owner,collaborator,organization_member",
				ListOptions: github.ListOptions{Page: page, PerPage: c.pageSize},
			})
			return listErr
		})
		if err != nil {
			c.log.Warn().Err(err).Int("page", page).Msg("user repo listing failed, treating as exhausted")
			break
		}
		for _, repo := range batch {
			add(repo.GetFullName())
		}
		if len(batch) < c.pageSize {
			break
		}
	}

	for _, org := range c.listOrgs(ctx) {
		c.listOrgRepos(ctx, org, add)
	}

	c.log.Info().Int("repos", len(repos)).Msg("repository enumeration complete")
	return repos
}

// listOrgs enumerates the organizations the principal belongs to.
func (c *Client) listOrgs(ctx context.Context) []string {
	var orgs []string
	for page := 1; ; page++ {
		var batch []*github.Organization
		err := c.withRateLimitPause(ctx, "list_orgs", func() error {
			var listErr error
			batch, _, listErr = c.gh.Organizations.List(ctx, "", &github.ListOptions{Page: page, PerPage: c.pageSize})
			return listErr
		})
		if err != nil {
			c.log.Warn().Err(err).Int("page", page).Msg("org listing failed, treating as exhausted")
			break
		}
		for _, org := range batch {
			orgs = append(orgs, org.GetLogin())
		}
		if len(batch) < c.pageSize {
			break
		}
	}
	return orgs
}

func (c *Client) listOrgRepos(ctx context.Context, org string, add func(string)) {
	for page := 1; ; page++ {
		var batch []*github.Repository
		err := c.withRateLimitPause(ctx, "list_org_repos", func() error {
			var listErr error
			batch, _, listErr = c.gh.Repositories.ListByOrg(ctx, org, &github.RepositoryListByOrgOptions{
				ListOptions: github.ListOptions{Page: page, PerPage: c.pageSize},
			})
			return listErr
		})
		if err != nil {
			c.log.Warn().Err(err).Str("org", org).Int("page", page).Msg("org repo listing failed, treating as exhausted")
			return
		}
		for _, repo := range batch {
			add(repo.GetFullName())
		}
		if len(batch) < c.pageSize {
			return
		}
	}
}
