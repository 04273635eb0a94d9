package pipeline

// ValidityResult is the validity-check variant.
type ValidityResult struct {
	IsResume   bool    `json:"isResume"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale"`
}

// MatchResult is the full-match variant.
type MatchResult struct {
	OverallScore  float64  `json:"overallScore"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
	Summary       string   `json:"summary"`
}

// SectionSuggestion is a single improvement tied to a resume section.
type SectionSuggestion struct {
	Section    string `json:"section"`
	Suggestion string `json:"suggestion"`
}

// AnalysisResult carries exactly one populated variant for its mode.
type AnalysisResult struct {
	Mode        Mode                `json:"mode"`
	Model       string              `json:"model,omitempty"`
	Validity    *ValidityResult     `json:"validity,omitempty"`
	Match       *MatchResult        `json:"match,omitempty"`
	Suggestions []SectionSuggestion `json:"suggestions,omitempty"`
}
