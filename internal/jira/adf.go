package jira

import (
	"encoding/json"
	"strings"
)

// FlattenADF extracts plain text from a description, which is either a plain
// string (older sites) or an Atlassian document tree. Text runs inside a
// paragraph are concatenated; block-level nodes are joined with a space.
// Tables, rows and cells are walked the same way as any other container.
func FlattenADF(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return strings.TrimSpace(flatten(v))
}

func flatten(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case []any:
		parts := make([]string, 0, len(n))
		for _, item := range n {
			if t := flatten(item); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, " ")
	case map[string]any:
		typ, _ := n["type"].(string)
		switch typ {
		case "text":
			s, _ := n["text"].(string)
			return s
		case "hardBreak":
			return "\n"
		case "paragraph", "heading":
			return inline(n["content"])
		}
		if content, ok := n["content"]; ok {
			return flatten(content)
		}
		if s, ok := n["text"].(string); ok {
			return s
		}
		return ""
	default:
		return ""
	}
}

// inline concatenates inline children of a paragraph without separators.
func inline(v any) string {
	items, ok := v.([]any)
	if !ok {
		return flatten(v)
	}
	var b strings.Builder
	for _, item := range items {
		b.WriteString(flatten(item))
	}
	return b.String()
}
