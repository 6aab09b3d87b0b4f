package notify

import (
	"encoding/json"
	"fmt"
	"time"
)

// Meta carries the run metadata rendered into the notification card.
type Meta struct {
	CommitCount int
	RepoCount   int
	Period      string
	GeneratedAt time.Time
}

const cardTitle = "Daily Commit Digest"

// messageCard is the legacy Teams incoming-webhook schema.
type messageCard struct {
	Type       string               `json:"@type"`
	Context    string               `json:"@context"`
	ThemeColor string               `json:"themeColor"`
	Summary    string               `json:"summary"`
	Title      string               `json:"title"`
	Sections   []messageCardSection `json:"sections"`
}

type messageCardSection struct {
	ActivitySubtitle string            `json:"activitySubtitle,omitempty"`
	Facts            []messageCardFact `json:"facts,omitempty"`
	Text             string            `json:"text,omitempty"`
}

type messageCardFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// workflowPayload is the Power Automate shape: an Adaptive Card inside a
// message attachment.
type workflowPayload struct {
	Type        string               `json:"type"`
	Attachments []workflowAttachment `json:"attachments"`
}

type workflowAttachment struct {
	ContentType string       `json:"contentType"`
	Content     adaptiveCard `json:"content"`
}

type adaptiveCard struct {
	Schema  string        `json:"$schema"`
	Type    string        `json:"type"`
	Version string        `json:"version"`
	Body    []cardElement `json:"body"`
}

type cardElement struct {
	Type     string     `json:"type"`
	Text     string     `json:"text,omitempty"`
	Size     string     `json:"size,omitempty"`
	Weight   string     `json:"weight,omitempty"`
	Wrap     bool       `json:"wrap,omitempty"`
	IsSubtle bool       `json:"isSubtle,omitempty"`
	Facts    []cardFact `json:"facts,omitempty"`
}

type cardFact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// buildPrimary renders the full card for the given dialect: title block,
// generated-at timestamp, fact table and the summary body.
func buildPrimary(dialect Dialect, summary string, meta Meta) ([]byte, error) {
	generatedAt := meta.GeneratedAt.Format("2006-01-02 15:04 MST")

	if dialect == DialectIncoming {
		card := messageCard{
			Type:       "MessageCard",
			Context:    "http://schema.org/extensions",
			ThemeColor: "0076D7",
			Summary:    cardTitle,
			Title:      cardTitle,
			Sections: []messageCardSection{{
				ActivitySubtitle: "Generated at " + generatedAt,
				Facts: []messageCardFact{
					{Name: "Repositories", Value: fmt.Sprintf("%d", meta.RepoCount)},
					{Name: "Commits", Value: fmt.Sprintf("%d", meta.CommitCount)},
					{Name: "Period", Value: meta.Period},
				},
				Text: summary,
			}},
		}
		return json.Marshal(card)
	}

	payload := workflowPayload{
		Type: "message",
		Attachments: []workflowAttachment{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			Content: adaptiveCard{
				Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
				Type:    "AdaptiveCard",
				Version: "1.4",
				Body: []cardElement{
					{Type: "TextBlock", Text: cardTitle, Size: "Large", Weight: "Bolder"},
					{Type: "TextBlock", Text: "Generated at " + generatedAt, IsSubtle: true, Wrap: true},
					{Type: "FactSet", Facts: []cardFact{
						{Title: "Repositories", Value: fmt.Sprintf("%d", meta.RepoCount)},
						{Title: "Commits", Value: fmt.Sprintf("%d", meta.CommitCount)},
						{Title: "Period", Value: meta.Period},
					}},
					{Type: "TextBlock", Text: summary, Wrap: true},
				},
			},
		}},
	}
	return json.Marshal(payload)
}

// buildFallback renders the structurally simpler payload sent once after the
// primary payload has been rejected repeatedly: title, counts and summary,
// no fact table.
func buildFallback(dialect Dialect, summary string, meta Meta) ([]byte, error) {
	text := fmt.Sprintf("%s — %d commits / %d repositories (%s)\n\n%s",
		cardTitle, meta.CommitCount, meta.RepoCount, meta.Period, summary)

	if dialect == DialectIncoming {
		card := messageCard{
			Type:     "MessageCard",
			Context:  "http://schema.org/extensions",
			Summary:  cardTitle,
			Title:    cardTitle,
			Sections: []messageCardSection{{Text: text}},
		}
		return json.Marshal(card)
	}

	payload := workflowPayload{
		Type: "message",
		Attachments: []workflowAttachment{{
			ContentType: "application/vnd.microsoft.card.adaptive",
			Content: adaptiveCard{
				Schema:  "http://adaptivecards.io/schemas/adaptive-card.json",
				Type:    "AdaptiveCard",
				Version: "1.4",
				Body: []cardElement{
					{Type: "TextBlock", Text: text, Wrap: true},
				},
			},
		}},
	}
	return json.Marshal(payload)
}
