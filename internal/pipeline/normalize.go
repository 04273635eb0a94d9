package pipeline

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Normalize turns raw model output into a validated AnalysisResult for the
// mode. Models wrap JSON in markdown fences or surround it with commentary, so
// the first balanced JSON object is located before decoding. Missing or
// wrongly typed required fields reject the whole response; optional fields are
// defaulted and scores clamped. Running the marshaled result through Normalize
// again yields the same result.
func Normalize(raw string, mode Mode) (AnalysisResult, error) {
	payload := extractJSONObject(raw)
	if payload == "" {
		return AnalysisResult{}, fmt.Errorf("%w: no JSON object in output", ErrInvalidAIResponse)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return AnalysisResult{}, fmt.Errorf("%w: %v", ErrInvalidAIResponse, err)
	}

	// A marshaled AnalysisResult nests the variant under its own key; unwrap
	// so normalization is idempotent.
	for _, key := range []string{"validity", "match"} {
		if inner, ok := fields[key].(map[string]any); ok {
			fields = inner
			break
		}
	}

	switch mode {
	case ModeValidityCheck:
		return normalizeValidity(fields)
	case ModeFullMatch:
		return normalizeMatch(fields)
	case ModeSectionSuggestions:
		return normalizeSuggestions(fields)
	default:
		return AnalysisResult{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidAIResponse, mode)
	}
}

func normalizeValidity(fields map[string]any) (AnalysisResult, error) {
	isResume, ok := asBool(pick(fields, "is_resume", "isResume"))
	if !ok {
		return AnalysisResult{}, fmt.Errorf("%w: missing field is_resume", ErrInvalidAIResponse)
	}
	confidence, _ := asFloat(pick(fields, "confidence"))
	rationale, _ := asString(pick(fields, "reason", "rationale"))

	return AnalysisResult{
		Mode: ModeValidityCheck,
		Validity: &ValidityResult{
			IsResume:   isResume,
			Confidence: clampUnit(confidence),
			Rationale:  strings.TrimSpace(rationale),
		},
	}, nil
}

func normalizeMatch(fields map[string]any) (AnalysisResult, error) {
	score, ok := asFloat(pick(fields, "overall_score", "overallScore"))
	if !ok {
		return AnalysisResult{}, fmt.Errorf("%w: missing field overall_score", ErrInvalidAIResponse)
	}
	matched := asStringSlice(pick(fields, "matched_skills", "matchedSkills"))
	missing := asStringSlice(pick(fields, "missing_skills", "missingSkills"))
	summary, _ := asString(pick(fields, "summary"))

	return AnalysisResult{
		Mode: ModeFullMatch,
		Match: &MatchResult{
			OverallScore:  clampScore(score),
			MatchedSkills: matched,
			MissingSkills: missing,
			Summary:       strings.TrimSpace(summary),
		},
	}, nil
}

func normalizeSuggestions(fields map[string]any) (AnalysisResult, error) {
	rawList, ok := pick(fields, "suggestions").([]any)
	if !ok {
		return AnalysisResult{}, fmt.Errorf("%w: missing field suggestions", ErrInvalidAIResponse)
	}

	suggestions := make([]SectionSuggestion, 0, len(rawList))
	for _, item := range rawList {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		text, _ := asString(pick(entry, "suggestion"))
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		section, _ := asString(pick(entry, "section"))
		section = strings.TrimSpace(section)
		if section == "" {
			section = "General"
		}
		suggestions = append(suggestions, SectionSuggestion{Section: section, Suggestion: text})
	}

	return AnalysisResult{
		Mode:        ModeSectionSuggestions,
		Suggestions: suggestions,
	}, nil
}

// extractJSONObject returns the first balanced top-level JSON object in s,
// skipping braces inside string literals.
func extractJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func pick(fields map[string]any, keys ...string) any {
	for _, key := range keys {
		if val, ok := fields[key]; ok {
			return val
		}
	}
	return nil
}

func asBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func asString(value any) (string, bool) {
	if s, ok := value.(string); ok {
		return s, true
	}
	return "", false
}

func asStringSlice(value any) []string {
	switch raw := value.(type) {
	case []string:
		return raw
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if str, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(str); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
		return out
	default:
		return []string{}
	}
}

func clampScore(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
