package digest

import (
	"fmt"
	"strings"
)

// maxFilesListed caps the per-commit file list in the rendered digest so a
// sweeping refactor commit cannot blow up the summarization prompt.
const maxFilesListed = 10

// RenderDigest renders the aggregate as the structured text handed to the
// summarization API: one section per repository, one bullet per commit with
// its line-change counts and touched files.
func RenderDigest(agg *Aggregate) string {
	if agg.CommitCount() == 0 {
		return ""
	}

	byRepo := make(map[string][]CommitRecord)
	var order []string
	for _, c := range agg.Commits() {
		if _, ok := byRepo[c.Repository]; !ok {
			order = append(order, c.Repository)
		}
		byRepo[c.Repository] = append(byRepo[c.Repository], c)
	}

	var b strings.Builder
	for _, repo := range order {
		commits := byRepo[repo]
		fmt.Fprintf(&b, "### %s (%d commits)\n", repo, len(commits))
		for _, c := range commits {
			fmt.Fprintf(&b, "- %s (+%d/-%d)", c.Message, c.Additions, c.Deletions)
			if len(c.Files) > 0 {
				fmt.Fprintf(&b, " [files: %s]", renderFiles(c.Files))
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderFiles(files []string) string {
	if len(files) <= maxFilesListed {
		return strings.Join(files, ", ")
	}
	shown := strings.Join(files[:maxFilesListed], ", ")
	return fmt.Sprintf("%s, … and %d more", shown, len(files)-maxFilesListed)
}
