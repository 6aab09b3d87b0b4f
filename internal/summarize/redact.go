package summarize

import "regexp"

// Secret-shaped substrings are scrubbed from every outgoing summary. Model
// output should never contain a credential, but a commit message that leaked
// one could echo straight through the summarizer into the chat channel.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`sk-[A-Za-z0-9_-]{16,}`),
	regexp.MustCompile(`ghp_[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`gho_[A-Za-z0-9]{20,}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{20,}`),
	regexp.MustCompile(`xox[baprs]-[A-Za-z0-9-]{10,}`),
	regexp.MustCompile(`\b[0-9a-fA-F]{32,}\b`),
}

const redactedPlaceholder = "[REDACTED]"

// RedactSecrets replaces key-shaped substrings with a placeholder.
func RedactSecrets(text string) string {
	for _, pattern := range secretPatterns {
		text = pattern.ReplaceAllString(text, redactedPlaceholder)
	}
	return text
}
