// Package classify decides whether extracted text plausibly is a resume
// before any model call is made. The pass is a pure function of the text,
// so identical input always produces the identical verdict.
package classify

import (
	"fmt"
	"regexp"
	"strings"
)

// Verdict is the outcome of the heuristic pass.
type Verdict struct {
	IsResume   bool
	Confident  bool
	Confidence float64
	Rationale  string
}

// Heuristic thresholds. Scores at or above resumeThreshold are confidently a
// resume, scores at or below rejectThreshold are confidently not; anything in
// between is ambiguous and should be escalated to the model.
const (
	resumeThreshold = 0.60
	rejectThreshold = 0.20
)

// Section markers commonly found as headers in resumes.
var sectionMarkers = []string{
	"experience",
	"work history",
	"employment",
	"education",
	"skills",
	"summary",
	"objective",
	"certifications",
	"projects",
	"qualifications",
	"achievements",
	"languages",
	"references",
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	linkPattern  = regexp.MustCompile(`(?i)(linkedin\.com|github\.com)/[\w\-/]+`)
	yearPattern  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Classify scores the text and returns a verdict. Weighting: section markers
// dominate (a resume without "experience" or "education" headers is rare),
// contact tokens and date ranges act as supporting signals.
func Classify(text string) Verdict {
	lower := strings.ToLower(text)

	var found []string
	for _, marker := range sectionMarkers {
		if containsMarker(lower, marker) {
			found = append(found, marker)
		}
	}

	sectionScore := float64(len(found)) / 4.0
	if sectionScore > 1 {
		sectionScore = 1
	}

	contactScore := 0.0
	if emailPattern.MatchString(text) {
		contactScore += 0.4
	}
	if phonePattern.MatchString(text) {
		contactScore += 0.3
	}
	if linkPattern.MatchString(text) {
		contactScore += 0.3
	}

	dateScore := 0.0
	if len(yearPattern.FindAllString(text, 3)) >= 2 {
		dateScore = 1.0
	}

	score := 0.6*sectionScore + 0.25*contactScore + 0.15*dateScore

	// Very short text cannot carry a full resume regardless of keywords.
	if len(strings.Fields(text)) < 30 {
		score *= 0.5
	}

	switch {
	case score >= resumeThreshold:
		return Verdict{
			IsResume:   true,
			Confident:  true,
			Confidence: score,
			Rationale:  fmt.Sprintf("section markers found: %s", strings.Join(found, ", ")),
		}
	case score <= rejectThreshold:
		rationale := "no resume section markers or contact information found"
		if len(found) > 0 {
			rationale = fmt.Sprintf("weak resume signals: %s", strings.Join(found, ", "))
		}
		return Verdict{
			IsResume:   false,
			Confident:  true,
			Confidence: 1 - score,
			Rationale:  rationale,
		}
	default:
		return Verdict{
			IsResume:   score >= 0.5*(resumeThreshold+rejectThreshold),
			Confident:  false,
			Confidence: score,
			Rationale:  fmt.Sprintf("ambiguous heuristic score %.2f", score),
		}
	}
}

// containsMarker looks for the marker as a standalone word so matches embedded
// in longer words ("inexperienced") do not count.
func containsMarker(lower, marker string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], marker)
		if i < 0 {
			return false
		}
		i += idx
		before := byte('\n')
		if i > 0 {
			before = lower[i-1]
		}
		if before == '\n' || before == ' ' || before == '\t' || before == ':' {
			return true
		}
		idx = i + len(marker)
	}
}
