package nlp_test

import (
	"testing"

	"github.com/soundprediction/trovato/pkg/nlp"
)

func TestExtractJSONFromResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "JSON in markdown code block",
			input:    "```json\n{\"name\": \"test\"}\n```",
			expected: "{\"name\": \"test\"}",
		},
		{
			name:     "JSON in generic code block",
			input:    "```\n{\"name\": \"test\"}\n```",
			expected: "{\"name\": \"test\"}",
		},
		{
			name:     "JSON object with surrounding text",
			input:    "Here is the result: {\"name\": \"test\"} Hope this helps!",
			expected: "{\"name\": \"test\"}",
		},
		{
			name:     "JSON array with surrounding text",
			input:    "The items are: [\"item1\", \"item2\"] as requested.",
			expected: "[\"item1\", \"item2\"]",
		},
		{
			name:     "Plain JSON object",
			input:    "{\"name\": \"test\"}",
			expected: "{\"name\": \"test\"}",
		},
		{
			name:     "Plain JSON array",
			input:    "[1, 2, 3]",
			expected: "[1, 2, 3]",
		},
		{
			name:     "Fenced block preceded by prose",
			input:    "Sure! Here are the judgments:\n```json\n{\"judgments\": []}\n```\nLet me know if you need more.",
			expected: "{\"judgments\": []}",
		},
		{
			name:     "No JSON at all",
			input:    "no structured content here",
			expected: "no structured content here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := nlp.ExtractJSONFromResponse(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractJSONFromResponse() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestUnmarshalLenient(t *testing.T) {
	type verdict struct {
		Name     string `json:"name"`
		Relevant bool   `json:"relevant"`
	}

	var v verdict
	fenced := "```json\n{\"name\": \"serde\", \"relevant\": true}\n```"
	if err := nlp.UnmarshalLenient(fenced, &v); err != nil {
		t.Fatalf("strict decode failed: %v", err)
	}
	if v.Name != "serde" || !v.Relevant {
		t.Errorf("unexpected decode result: %+v", v)
	}

	v = verdict{}
	if err := nlp.UnmarshalLenient(`{"name": "serde", "relevant": true,}`, &v); err != nil {
		t.Fatalf("trailing comma should be repairable: %v", err)
	}
	if v.Name != "serde" {
		t.Errorf("unexpected repaired result: %+v", v)
	}

	if err := nlp.UnmarshalLenient("the model rambled with no structure", &v); err == nil {
		t.Error("expected an error for prose input")
	}
}
