// Package persona parses free-text persona and job-to-be-done descriptions
// into a structured profile driving relevance scoring.
package persona

import (
	"regexp"
	"strings"
)

// Type is the persona classification. Adding a type is a closed change:
// every table in this package and the affinity tables in the relevance
// package key off it.
type Type string

const (
	AcademicResearcher    Type = "academic_researcher"
	BusinessAnalyst       Type = "business_analyst"
	Student               Type = "student"
	TechnicalProfessional Type = "technical_professional"
)

// Preferences are content-preference weights in [0,1].
type Preferences struct {
	TechnicalDepth    float64
	QuantitativeFocus float64
	IntroductoryFocus float64
}

// Profile is the structured representation of one persona + job pair.
// Created once per run and immutable afterward.
type Profile struct {
	Type        Type
	Persona     string
	Job         string
	Expertise   []string
	Priorities  []string
	Preferences Preferences
}

// Keyword vocabularies for persona classification.
var typeVocab = []struct {
	t     Type
	words []string
}{
	{AcademicResearcher, []string{"researcher", "phd", "scientist", "academic", "professor", "postdoc"}},
	{BusinessAnalyst, []string{"analyst", "investment", "financial", "business", "consultant", "banker"}},
	{Student, []string{"student", "undergraduate", "graduate", "exam", "course", "learner"}},
}

// preferenceTable maps persona types to fixed content-preference weights.
var preferenceTable = map[Type]Preferences{
	AcademicResearcher:    {TechnicalDepth: 0.8, QuantitativeFocus: 0.5, IntroductoryFocus: 0.1},
	BusinessAnalyst:       {TechnicalDepth: 0.5, QuantitativeFocus: 0.9, IntroductoryFocus: 0.2},
	Student:               {TechnicalDepth: 0.2, QuantitativeFocus: 0.2, IntroductoryFocus: 0.8},
	TechnicalProfessional: {TechnicalDepth: 0.5, QuantitativeFocus: 0.5, IntroductoryFocus: 0.5},
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"with": true, "that": true, "this": true, "from": true, "have": true,
	"will": true, "who": true, "specializing": true, "working": true,
	"focused": true, "about": true, "their": true, "into": true,
	"them": true, "then": true, "than": true, "when": true, "what": true,
	"based": true, "using": true, "need": true, "needs": true,
}

var (
	reWord   = regexp.MustCompile(`[a-zA-Z]{4,}`)
	reAction = regexp.MustCompile(`(?i)\b(?:analyze|analyse|identify|prepare|review|summarize|summarise|compare|extract|evaluate|assess|find)\s+([a-zA-Z]{3,})`)
)

// Analyze builds a Profile from free-text persona and job descriptions.
// Empty input falls back to the neutral default profile, never an error.
func Analyze(personaText, jobText string) Profile {
	t := classifyType(personaText)
	return Profile{
		Type:        t,
		Persona:     strings.TrimSpace(personaText),
		Job:         strings.TrimSpace(jobText),
		Expertise:   extractKeywords(personaText),
		Priorities:  extractPriorities(jobText),
		Preferences: preferenceTable[t],
	}
}

// Default returns the neutral fallback profile used when persona and job
// text are missing.
func Default() Profile {
	return Analyze("", "")
}

func classifyType(personaText string) Type {
	lower := strings.ToLower(personaText)
	for _, tv := range typeVocab {
		for _, w := range tv.words {
			if strings.Contains(lower, w) {
				return tv.t
			}
		}
	}
	return TechnicalProfessional
}

// extractKeywords pulls lower-cased domain terms (4+ letters, stopwords
// removed, deduplicated in first-seen order).
func extractKeywords(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range reWord.FindAllString(strings.ToLower(text), -1) {
		if stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// extractPriorities pulls the objects of action verbs from the job text plus
// its general domain terms.
func extractPriorities(jobText string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, m := range reAction.FindAllStringSubmatch(jobText, -1) {
		w := strings.ToLower(m[1])
		if !stopwords[w] && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	for _, w := range extractKeywords(jobText) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
