package notify

import (
	"net/url"
	"strings"
)

// Dialect identifies which payload schema a webhook endpoint expects.
type Dialect int

const (
	// DialectUnknown means the URL matched neither known provider shape.
	// Unknown endpoints are sent the workflow schema, which is what
	// untested webhook providers have historically accepted.
	DialectUnknown Dialect = iota

	// DialectIncoming is the classic Teams incoming webhook (MessageCard).
	DialectIncoming

	// DialectWorkflow is a Power Automate / Logic Apps workflow trigger
	// (Adaptive Card wrapped in an attachment).
	DialectWorkflow
)

func (d Dialect) String() string {
	switch d {
	case DialectIncoming:
		return "incoming"
	case DialectWorkflow:
		return "workflow"
	default:
		return "unknown"
	}
}

// ClassifyWebhook detects the payload dialect from the webhook URL shape.
func ClassifyWebhook(rawURL string) Dialect {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return DialectUnknown
	}

	host := strings.ToLower(parsed.Host)
	path := strings.ToLower(parsed.Path)

	switch {
	case strings.Contains(host, "webhook.office.com"),
		strings.Contains(host, "outlook.office.com"),
		strings.Contains(path, "/webhookb2/"):
		return DialectIncoming
	case strings.Contains(host, "logic.azure.com"),
		strings.Contains(host, "powerautomate"),
		strings.Contains(path, "/workflows/"):
		return DialectWorkflow
	default:
		return DialectUnknown
	}
}
