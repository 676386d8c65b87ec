package llm

import "strings"

// ParseSelection decodes the line-oriented response format:
//
//	MATCH: YES
//	CATEGORY: Food & Dining
//	SUBCATEGORY: Restaurant
//	CONFIDENCE: HIGH
//	REASONING: ...
//
// The upstream producer is non-deterministic text, so every field is treated
// as optional-with-default: a missing or "NO" match, or a missing category,
// yields a nil selection; an unknown confidence is left empty for the caller
// to default.
func ParseSelection(content string) *Selection {
	var sel Selection
	matched := true

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "MATCH":
			matched = !strings.EqualFold(value, "NO") && !strings.EqualFold(value, "NONE")
		case "CATEGORY":
			sel.Category = value
		case "SUBCATEGORY":
			sel.Subcategory = value
		case "CONFIDENCE":
			switch strings.ToLower(value) {
			case "high", "medium", "low":
				sel.Confidence = strings.ToLower(value)
			}
		case "REASONING":
			sel.Reasoning = value
		}
	}

	if !matched || sel.Category == "" {
		return nil
	}
	return &sel
}
