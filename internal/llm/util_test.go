package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_Fences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"title\": \"Experience Acme\"}\n```",
			expected: `{"title": "Experience Acme"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"title\": \"Experience Acme\"}\n```",
			expected: `{"title": "Experience Acme"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n[{\"icon\": \"⚡\"}]\n```",
			expected: `[{"icon": "⚡"}]`,
		},
		{
			name:     "plain JSON",
			input:    `{"ctaText": "Download Free"}`,
			expected: `{"ctaText": "Download Free"}`,
		},
		{
			name:     "no JSON at all",
			input:    "  I cannot help with that.  ",
			expected: "I cannot help with that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCleanJSONBlock_SurroundingText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before object",
			input:    "Here is the hero section:\n{\"title\": \"Acme\"}",
			expected: `{"title": "Acme"}`,
		},
		{
			name:     "preamble before array",
			input:    "Here are the features:\n[\"one\", \"two\"]",
			expected: `["one", "two"]`,
		},
		{
			name:     "trailing text",
			input:    "{\"title\": \"Acme\"}\n\nLet me know if you want another variant!",
			expected: `{"title": "Acme"}`,
		},
		{
			name:     "escaped quotes",
			input:    "Result: {\"quote\": \"They said \\\"wow\\\"\"}",
			expected: `{"quote": "They said \"wow\""}`,
		},
		{
			name:     "braces inside strings",
			input:    `{"subtitle": "Use {{appName}} today"} thanks`,
			expected: `{"subtitle": "Use {{appName}} today"}`,
		},
		{
			name:     "unbalanced returns trimmed input",
			input:    `Sure: {"title": "Acme"`,
			expected: `Sure: {"title": "Acme"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple object", input: `{"key": "value"}`, expected: `{"key": "value"}`},
		{name: "nested objects", input: `{"outer": {"inner": "value"}}`, expected: `{"outer": {"inner": "value"}}`},
		{name: "object with array", input: `{"items": [1, 2, 3]}`, expected: `{"items": [1, 2, 3]}`},
		{name: "trailing text", input: `{"key": "value"} and more`, expected: `{"key": "value"}`},
		{name: "empty input", input: "", expected: ""},
		{name: "not starting with brace", input: "not json", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONObject(tt.input))
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple array", input: `["a", "b"]`, expected: `["a", "b"]`},
		{name: "nested arrays", input: `[[1, 2], [3, 4]]`, expected: `[[1, 2], [3, 4]]`},
		{name: "array of objects", input: `[{"id": 1}, {"id": 2}]`, expected: `[{"id": 1}, {"id": 2}]`},
		{name: "bracket in string", input: `["a]b"] tail`, expected: `["a]b"]`},
		{name: "not starting with bracket", input: "nope", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractJSONArray(tt.input))
		})
	}
}
