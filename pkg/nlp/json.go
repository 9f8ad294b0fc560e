package nlp

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"
)

// ExtractJSONFromResponse pulls the JSON payload out of a model response that
// may wrap it in markdown code fences or explanatory prose. The input is
// returned unchanged when no JSON-looking payload can be located.
func ExtractJSONFromResponse(response string) string {
	s := strings.TrimSpace(response)

	// Fenced code block, with or without a language tag.
	if idx := strings.Index(s, "```"); idx != -1 {
		rest := s[idx+3:]
		if nl := strings.IndexByte(rest, '\n'); nl != -1 {
			tag := strings.TrimSpace(rest[:nl])
			if tag == "" || strings.EqualFold(tag, "json") {
				rest = rest[nl+1:]
			}
		}
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	// Outermost object or array embedded in surrounding text.
	if start := strings.IndexByte(s, '{'); start != -1 {
		if end := strings.LastIndexByte(s, '}'); end > start {
			return s[start : end+1]
		}
	}
	if start := strings.IndexByte(s, '['); start != -1 {
		if end := strings.LastIndexByte(s, ']'); end > start {
			return s[start : end+1]
		}
	}

	return s
}

// UnmarshalLenient decodes a model response into v: the JSON payload is
// located first, decoded strictly, and on failure repaired once and decoded
// again. Chat models routinely emit almost-JSON (trailing commas, fences,
// single quotes); one repair pass recovers most of it.
func UnmarshalLenient(response string, v any) error {
	payload := ExtractJSONFromResponse(response)

	if err := json.Unmarshal([]byte(payload), v); err == nil {
		return nil
	}

	repaired, err := jsonrepair.JSONRepair(payload)
	if err != nil {
		return fmt.Errorf("payload not repairable: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("repaired payload still undecodable: %w", err)
	}
	return nil
}
