package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for a run. Everything comes from the
// environment; a .env file in the working directory is honored when present.
type Config struct {
	// GitHubToken authenticates against the GitHub REST API.
	GitHubToken string `envconfig:"GITHUB_TOKEN" required:"true"`

	// Author is the tracked GitHub account whose commits are aggregated.
	// When empty, the authenticated user's login is used.
	Author string `envconfig:"GITHUB_AUTHOR"`

	// AuthorEmail optionally widens author matching to a commit email.
	AuthorEmail string `envconfig:"GITHUB_AUTHOR_EMAIL"`

	// OpenAIAPIKey authenticates the summarization API.
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY" required:"true"`

	// OpenAIBaseURL overrides the API endpoint for OpenAI-compatible
	// providers. Empty means the default OpenAI endpoint.
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`

	// OpenAIModel is the chat completion model used for summarization.
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// WebhookURL is the Teams webhook the digest card is posted to.
	WebhookURL string `envconfig:"TEAMS_WEBHOOK_URL" required:"true"`

	// Timezone is the IANA zone the reporting window is resolved in.
	Timezone string `envconfig:"REPORT_TIMEZONE" default:"Asia/Seoul"`

	// MaxCommitsPerRepo bounds how many commits a single repository may
	// contribute to the digest.
	MaxCommitsPerRepo int `envconfig:"MAX_COMMITS_PER_REPO" default:"200"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

// Load reads configuration from the environment, honoring a .env file if one
// exists. Missing required values are a fatal condition.
func Load() (*Config, error) {
	_ = godotenv.Load() // silently ignore a missing .env file

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
