package digest

import (
	"encoding/json"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain message untouched",
			input: "fix login redirect",
			want:  "fix login redirect",
		},
		{
			name:  "newlines collapse to spaces",
			input: "add endpoint\n\nwith body validation",
			want:  "add endpoint with body validation",
		},
		{
			name:  "quotes neutralized",
			input: `revert "broken deploy"`,
			want:  "revert 'broken deploy'",
		},
		{
			name:  "backslashes neutralized",
			input: `support C:\temp paths`,
			want:  "support C:/temp paths",
		},
		{
			name:  "control characters stripped",
			input: "sneaky\x00\x07\x1b[31mmessage\x7f",
			want:  "sneaky[31mmessage",
		},
		{
			name:  "tabs and CRLF collapse",
			input: "one\ttwo\r\nthree",
			want:  "one two three",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  trailing newline\n",
			want:  "trailing newline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeMessage(tt.input))
		})
	}
}

// A hostile commit message must survive a serialization round trip with
// control characters gone and quoting neutralized.
func TestSanitizeMessageSerializationRoundTrip(t *testing.T) {
	hostile := "evil \"quote\" \\ inject\x00\x01\n{\"key\": \"value\"}"

	rec := NewCommitRecord("acme/api", "abc123", hostile, nil, 1, 0)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded CommitRecord
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, r := range decoded.Message {
		assert.False(t, unicode.IsControl(r), "control character survived: %q", r)
	}
	assert.NotContains(t, decoded.Message, `"`)
	assert.NotContains(t, decoded.Message, `\`)
	assert.Contains(t, decoded.Message, "evil 'quote'")
}
