package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello world", "hello world"},
		{"trims whitespace", "  hello  ", "hello"},
		{"strips null bytes", "hel\x00lo", "hello"},
		{"strips control chars", "hel\x01\x02lo", "hello"},
		{"keeps newlines and tabs", "line one\n\tline two", "line one\n\tline two"},
		{"strips carriage returns", "line one\r\nline two", "line one\nline two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_EmptyAfterSanitization(t *testing.T) {
	for _, input := range []string{"", "   ", "\x00\x01\x02", "\n\t\n"} {
		_, err := Sanitize(input)
		assert.ErrorIs(t, err, ErrEmptyAfterSanitization, "input %q", input)
	}
}

func TestClassifyNoise(t *testing.T) {
	longPad := " which we discussed at length during the planning call yesterday"

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			"normal sentence is not noise",
			"We decided to migrate the billing service to the new queue because the old one kept dropping messages under load.",
			ReasonNone,
		},
		{"short string", "ok thanks", ReasonTooShort},
		{"empty string", "", ReasonTooShort},
		{"tool result marker", "<tool_result>stdout: 412 lines omitted</tool_result>" + longPad, ReasonToolOutput},
		{"tool use id marker", "tool_use_id: toolu_0123456789 content follows here" + longPad, ReasonToolOutput},
		{"empty result marker", "(no results found)", ReasonEmptyResult},
		{"sql ddl fragment", "CREATE TABLE embeddings (id INTEGER PRIMARY KEY, vector BLOB NOT NULL)", ReasonSQLFragment},
		{"sql dml fragment", "INSERT INTO messages (id, contents) VALUES (1, 'hello'), (2, 'world')", ReasonSQLFragment},
		{"interrupted request", "I was going to explain the deployment but [Request interrupted by user]", ReasonInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyNoise(tt.text))
		})
	}
}

func TestClassifyNoise_Deterministic(t *testing.T) {
	text := "SELECT id, contents FROM messages WHERE session_id = 'abc' ORDER BY id"
	first := ClassifyNoise(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ClassifyNoise(text))
	}
	assert.Equal(t, ReasonSQLFragment, first)
}

func TestIsNoise(t *testing.T) {
	assert.True(t, IsNoise("too short"))
	assert.False(t, IsNoise("This message is comfortably longer than the minimum threshold and reads like normal prose."))
}
