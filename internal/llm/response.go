package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rs/zerolog/log"

	"github.com/pullscout/pkg/models"
)

// rawSuggestion mirrors the output contract given to the model. The line
// number arrives loosely typed (number or quoted number) and is coerced.
type rawSuggestion struct {
	LineNumber    json.RawMessage `json:"lineNumber"`
	ReviewComment string          `json:"reviewComment"`
}

// ParseSuggestions decodes a raw model response into suggestions. An empty
// or absent response is the empty set, not an error. Individually malformed
// entries are rejected per-entry; only a response that cannot be read as a
// JSON array at all is an error.
func ParseSuggestions(raw string) ([]models.Suggestion, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return []models.Suggestion{}, nil
	}

	var entries []rawSuggestion
	if err := json.Unmarshal([]byte(jsonStr), &entries); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(jsonStr)
		if repairErr != nil {
			return nil, fmt.Errorf("response is not a JSON array: %w", err)
		}
		log.Debug().
			Int("original_bytes", len(jsonStr)).
			Int("repaired_bytes", len(repaired)).
			Msg("Repaired malformed model JSON")
		if err := json.Unmarshal([]byte(repaired), &entries); err != nil {
			return nil, fmt.Errorf("response is not a JSON array after repair: %w", err)
		}
	}

	suggestions := make([]models.Suggestion, 0, len(entries))
	for i, entry := range entries {
		line, err := coerceLineNumber(entry.LineNumber)
		if err != nil {
			log.Warn().Err(err).Int("entry", i).Msg("Rejecting suggestion with bad line number")
			continue
		}
		if strings.TrimSpace(entry.ReviewComment) == "" {
			log.Warn().Int("entry", i).Msg("Rejecting suggestion with empty comment")
			continue
		}
		suggestions = append(suggestions, models.Suggestion{
			LineNumber: line,
			Comment:    entry.ReviewComment,
		})
	}

	return suggestions, nil
}

// coerceLineNumber accepts 12, "12", and 12.0 forms.
func coerceLineNumber(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("missing line number")
	}
	s = strings.Trim(s, `"`)

	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, fmt.Errorf("non-numeric line number %q", s)
}

// extractJSON pulls the JSON array out of a response that may be wrapped in
// explanatory text or a markdown code fence.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "[") {
		return raw
	}

	if strings.Contains(raw, "```") {
		var inFence bool
		var fenced []string
		for _, line := range strings.Split(raw, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				inFence = !inFence
				continue
			}
			if inFence {
				fenced = append(fenced, line)
			}
		}
		if len(fenced) > 0 {
			return strings.TrimSpace(strings.Join(fenced, "\n"))
		}
	}

	// Fall back to the first balanced [...] span.
	start := strings.Index(raw, "[")
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return raw[start:]
}
