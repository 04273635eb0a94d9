package llm

import (
	"fmt"
	"strings"
)

// Prompt templates constrain the model to a fixed JSON schema per analysis
// mode. Field names here must stay in sync with the normalizer.

const systemPreamble = "You are a resume analysis engine. Respond with JSON only. No markdown. Never omit keys. Output must match the schema exactly.\n\n"

const validitySchema = `Decide whether the following text is a resume/CV. Look for contact
information, work experience, education, and skills sections.
Respond with exactly this JSON schema:
{"is_resume": <true|false>, "confidence": <number 0-1>, "reason": "<one sentence>"}`

const matchSchema = `You are an expert ATS and resume analyzer. Score how well the resume matches
the job description (or general hiring standards when none is given).
Respond with exactly this JSON schema:
{"overall_score": <number 0-100>,
 "matched_skills": ["<skill>", ...],
 "missing_skills": ["<skill>", ...],
 "summary": "<2-3 sentence assessment>"}
Consider ATS keyword coverage, quantifiable impact, clarity, and role fit.`

const suggestionsSchema = `You are an expert resume writer. Produce concrete, section-level improvement
suggestions for the resume below, ordered by impact.
Respond with exactly this JSON schema:
{"suggestions": [{"section": "<section name>", "suggestion": "<specific improvement>"}, ...]}
Focus on quantifiable achievements, action verbs, and ATS keyword coverage.`

// BuildValidityPrompt asks the model for a resume/non-resume verdict. Only a
// prefix of the text is sent; a verdict does not need the whole document.
func BuildValidityPrompt(text string) string {
	return systemPreamble + validitySchema + "\n\nText to analyze:\n" + truncate(text, 2000)
}

// BuildMatchPrompt asks the model for a job-match score.
func BuildMatchPrompt(text, jobDescription string) string {
	jd := strings.TrimSpace(jobDescription)
	if jd == "" {
		jd = "N/A"
	}
	return fmt.Sprintf("%s%s\n\nResume:\n%s\n\nJob Description:\n%s", systemPreamble, matchSchema, text, jd)
}

// BuildSuggestionsPrompt asks the model for section-level improvements. The
// section argument narrows the request to a single pasted section when set.
func BuildSuggestionsPrompt(text, jobDescription, section string) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString(suggestionsSchema)
	if s := strings.TrimSpace(section); s != "" {
		fmt.Fprintf(&b, "\n\nOnly the %q section is provided; restrict suggestions to it.", s)
	}
	if jd := strings.TrimSpace(jobDescription); jd != "" {
		b.WriteString("\n\nJob Description:\n")
		b.WriteString(jd)
	}
	b.WriteString("\n\nResume:\n")
	b.WriteString(text)
	return b.String()
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}
