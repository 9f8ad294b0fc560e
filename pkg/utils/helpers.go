package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// GenerateUUID generates a new UUID7 string
func GenerateUUID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// TruncateString shortens s to at most max runes, appending "..." when text
// was cut. Rune-based so multi-byte text is never split mid-character.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// IsCJKRune reports whether r falls in the CJK unified ideograph range.
func IsCJKRune(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

// ContainsCJK reports whether s contains at least one character in the CJK
// unified ideograph range.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if IsCJKRune(r) {
			return true
		}
	}
	return false
}

// UnmarshalYAML parses a YAML string and unmarshals it into a slice of structs.
// It uses gopkg.in/yaml.v3 and handles partial failures by skipping invalid items.
func UnmarshalYAML[T any](yamlString string) ([]*T, error) {
	// First, try to unmarshal as a slice of yaml.Nodes to access individual items
	var nodes []yaml.Node
	err := yaml.Unmarshal([]byte(yamlString), &nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML structure: %w", err)
	}

	results := make([]*T, 0, len(nodes))
	var errs []error

	for i, node := range nodes {
		var item T
		if err := node.Decode(&item); err != nil {
			errs = append(errs, fmt.Errorf("failed to unmarshal item %d: %v", i, err))
			continue
		}
		results = append(results, &item)
	}

	if len(results) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("failed to unmarshal any items: %v", errs[0])
	}

	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d YAML items failed to parse and were skipped\n", len(errs))
	}

	return results, nil
}

// SplitNonEmpty splits s on sep and returns the trimmed, non-empty parts.
func SplitNonEmpty(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
