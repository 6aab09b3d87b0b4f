package digest

import (
	"strings"
)

// CommitRecord is the normalized shape of a single commit after the raw
// listing and detail lookups have been merged.
type CommitRecord struct {
	Repository string   `json:"repository"`
	SHA        string   `json:"sha"`
	Message    string   `json:"message"`
	Files      []string `json:"files"`
	Additions  int      `json:"additions"`
	Deletions  int      `json:"deletions"`
}

// NewCommitRecord normalizes raw commit data into a CommitRecord. The
// message is sanitized here so no un-normalized text ever enters the
// aggregate.
func NewCommitRecord(repo, sha, message string, files []string, additions, deletions int) CommitRecord {
	return CommitRecord{
		Repository: repo,
		SHA:        sha,
		Message:    SanitizeMessage(message),
		Files:      files,
		Additions:  additions,
		Deletions:  deletions,
	}
}

// Aggregate accumulates commit records for a single run, deduplicating by
// SHA. It is owned by the fetch stage and handed to the summarizer once the
// fetch loop completes; nothing is persisted beyond the run.
type Aggregate struct {
	commits []CommitRecord
	seen    map[string]struct{}
}

// NewAggregate creates an empty accumulator.
func NewAggregate() *Aggregate {
	return &Aggregate{seen: make(map[string]struct{})}
}

// Add appends a record unless its SHA was already observed. Returns true if
// the record was retained. A commit reachable from multiple branches is
// counted exactly once.
func (a *Aggregate) Add(rec CommitRecord) bool {
	if _, dup := a.seen[rec.SHA]; dup {
		return false
	}
	a.seen[rec.SHA] = struct{}{}
	a.commits = append(a.commits, rec)
	return true
}

// Commits returns the retained records in first-observed order.
func (a *Aggregate) Commits() []CommitRecord {
	return a.commits
}

// CommitCount returns the number of deduplicated commits.
func (a *Aggregate) CommitCount() int {
	return len(a.commits)
}

// RepoCount returns the number of distinct repositories that contributed at
// least one commit.
func (a *Aggregate) RepoCount() int {
	repos := make(map[string]struct{}, len(a.commits))
	for _, c := range a.commits {
		repos[c.Repository] = struct{}{}
	}
	return len(repos)
}

// Identity describes the tracked account a commit may be attributed to.
type Identity struct {
	Login string
	Email string
}

// CommitAuthorship carries the author and committer identities of a raw
// commit as reported by the hosting API. Either side may be empty when the
// API did not resolve an account.
type CommitAuthorship struct {
	AuthorLogin    string
	AuthorEmail    string
	CommitterLogin string
	CommitterEmail string
}

// MatchesAuthor reports whether a commit belongs to the tracked account. The
// check is an OR over author and committer identity: commits authored by the
// account but pushed or merged by a bot identity still count, and vice versa.
func MatchesAuthor(auth CommitAuthorship, account Identity) bool {
	return matchesIdentity(auth.AuthorLogin, auth.AuthorEmail, account) ||
		matchesIdentity(auth.CommitterLogin, auth.CommitterEmail, account)
}

func matchesIdentity(login, email string, account Identity) bool {
	if account.Login != "" {
		if strings.EqualFold(login, account.Login) {
			return true
		}
		// Commits made through the web UI carry <login>@users.noreply or
		// <id>+<login>@users.noreply emails.
		if local, _, found := strings.Cut(email, "@"); found {
			if strings.EqualFold(local, account.Login) {
				return true
			}
			if strings.HasSuffix(strings.ToLower(local), "+"+strings.ToLower(account.Login)) {
				return true
			}
		}
	}
	if account.Email != "" && strings.EqualFold(email, account.Email) {
		return true
	}
	return false
}
