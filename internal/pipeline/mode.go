package pipeline

import (
	"errors"
	"strings"
)

// Mode defines the supported analysis modes.
type Mode string

const (
	ModeValidityCheck      Mode = "validity-check"
	ModeFullMatch          Mode = "full-match"
	ModeSectionSuggestions Mode = "section-suggestions"
)

// ParseMode normalizes and validates a mode string.
func ParseMode(raw string) (Mode, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return "", errors.New("analysis mode is required")
	}
	switch strings.ToLower(normalized) {
	case string(ModeValidityCheck):
		return ModeValidityCheck, nil
	case string(ModeFullMatch):
		return ModeFullMatch, nil
	case string(ModeSectionSuggestions):
		return ModeSectionSuggestions, nil
	default:
		return "", errors.New("analysis mode is invalid")
	}
}
