package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("TEAMS_WEBHOOK_URL", "https://contoso.webhook.office.com/webhookb2/abc")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-token", cfg.GitHubToken)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 200, cfg.MaxCommitsPerRepo)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Author)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GITHUB_AUTHOR", "octocat")
	t.Setenv("REPORT_TIMEZONE", "America/New_York")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("MAX_COMMITS_PER_REPO", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "octocat", cfg.Author)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, 50, cfg.MaxCommitsPerRepo)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("TEAMS_WEBHOOK_URL", "https://example.com/hook")

	_, err := Load()
	assert.Error(t, err)
}
