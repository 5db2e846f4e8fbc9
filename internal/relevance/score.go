// Package relevance scores document sections against a persona profile and
// selects a diversity-balanced top set for output.
package relevance

import (
	"regexp"
	"strings"

	"github.com/docsight/docsight/internal/persona"
	"github.com/docsight/docsight/internal/section"
)

// Weights for the five scoring factors. The top-level split is fixed across
// personas; persona sensitivity comes from the affinity tables and the
// preference comparison targets, not from reweighting the factors.
type Weights struct {
	Keyword      float64
	SectionType  float64
	ContentDepth float64
	Quantitative float64
	Position     float64
}

// DefaultWeights returns the baseline factor split.
func DefaultWeights() Weights {
	return Weights{
		Keyword:      0.3,
		SectionType:  0.2,
		ContentDepth: 0.2,
		Quantitative: 0.15,
		Position:     0.15,
	}
}

// ScoreOptions tune the scorer.
type ScoreOptions struct {
	Weights         Weights
	MinSectionWords int // sections below this word count are excluded
}

// DefaultScoreOptions returns the baseline scorer settings.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{Weights: DefaultWeights(), MinSectionWords: 10}
}

// ScoredSection pairs a section with its persona-adjusted relevance score.
type ScoredSection struct {
	*section.Section
	Score float64
}

// typeAffinity maps persona types to section-type preferences in [0,1].
// Unlisted combinations default to 0.5.
var typeAffinity = map[persona.Type]map[section.Type]float64{
	persona.AcademicResearcher: {
		section.TypeMethodology:  0.9,
		section.TypeResults:      0.9,
		section.TypeDiscussion:   0.8,
		section.TypeConceptual:   0.7,
		section.TypeIntroduction: 0.6,
		section.TypeFinancial:    0.4,
	},
	persona.BusinessAnalyst: {
		section.TypeFinancial:    0.95,
		section.TypeResults:      0.9,
		section.TypeDiscussion:   0.8,
		section.TypeIntroduction: 0.5,
		section.TypeConceptual:   0.4,
		section.TypeMethodology:  0.4,
	},
	persona.Student: {
		section.TypeIntroduction: 0.9,
		section.TypeConceptual:   0.85,
		section.TypeMethodology:  0.7,
		section.TypeDiscussion:   0.6,
		section.TypeResults:      0.5,
		section.TypeFinancial:    0.4,
	},
	persona.TechnicalProfessional: {
		section.TypeMethodology:  0.8,
		section.TypeConceptual:   0.7,
		section.TypeResults:      0.7,
		section.TypeIntroduction: 0.6,
		section.TypeDiscussion:   0.6,
		section.TypeFinancial:    0.5,
	},
}

var techVocab = []string{
	"algorithm", "framework", "parameter", "coefficient", "distribution",
	"protocol", "hypothesis", "implementation", "architecture", "optimization",
	"statistical", "empirical", "methodology", "evaluation", "derivative",
	"mechanism", "kinetics", "regression", "benchmark", "dataset",
}

var (
	reNumber   = regexp.MustCompile(`\b\d+(?:\.\d+)?%?`)
	reStatTerm = regexp.MustCompile(`(?i)\b(mean|median|average|variance|correlation|percent|percentage|ratio|growth|total|rate)\b`)
)

// positionDampenAfter: documents with more sections than this get their
// positional spread compressed toward neutral.
const positionDampenAfter = 20

// Score computes persona-adjusted relevance for every qualifying section.
// Sections below the minimum word count are excluded before scoring.
func Score(sections []*section.Section, profile persona.Profile, opts ScoreOptions) []ScoredSection {
	perDoc := make(map[string]int)
	for _, s := range sections {
		perDoc[s.Document]++
	}

	keywords := append([]string{}, profile.Expertise...)
	keywords = append(keywords, profile.Priorities...)

	var scored []ScoredSection
	for _, s := range sections {
		if s.WordCount() < opts.MinSectionWords {
			continue
		}
		text := strings.ToLower(s.Heading + " " + s.Text())

		w := opts.Weights
		score := w.Keyword*keywordScore(text, keywords) +
			w.SectionType*affinity(profile.Type, s.Type) +
			w.ContentDepth*depthScore(text, s.WordCount(), profile.Preferences) +
			w.Quantitative*quantScore(text, s.WordCount(), profile.Preferences) +
			w.Position*positionScore(s.Index, perDoc[s.Document])

		scored = append(scored, ScoredSection{Section: s, Score: clamp01(score)})
	}
	return scored
}

// keywordScore is the matched fraction of profile keywords, saturating at 1.
func keywordScore(text string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matches := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			matches++
		}
	}
	return clamp01(float64(matches) / float64(len(keywords)))
}

func affinity(pt persona.Type, st section.Type) float64 {
	if prefs, ok := typeAffinity[pt]; ok {
		if v, ok := prefs[st]; ok {
			return v
		}
	}
	return 0.5
}

// depthScore measures technical density (sentence length + technical
// vocabulary) and rewards proximity to the persona's preferred depth.
func depthScore(text string, words int, prefs persona.Preferences) float64 {
	if words == 0 {
		return 0
	}
	sentences := strings.Count(text, ". ") + 1
	avgLen := float64(words) / float64(sentences)
	lengthPart := clamp01(avgLen / 25)

	vocabHits := 0
	for _, v := range techVocab {
		if strings.Contains(text, v) {
			vocabHits++
		}
	}
	vocabPart := clamp01(float64(vocabHits) / 5)

	measured := 0.6*lengthPart + 0.4*vocabPart
	return 1 - abs(measured-prefs.TechnicalDepth)
}

// quantScore is the density of numeric and statistical tokens per 100 words,
// saturating at 1.0 and weighted by the persona's quantitative focus.
func quantScore(text string, words int, prefs persona.Preferences) float64 {
	if words == 0 {
		return 0
	}
	indicators := len(reNumber.FindAllString(text, -1)) +
		2*len(reStatTerm.FindAllString(text, -1))
	density := float64(indicators) / float64(words) * 100
	return clamp01(density/10) * prefs.QuantitativeFocus
}

// positionScore rewards earlier sections, compressed toward neutral for
// very long documents.
func positionScore(index, total int) float64 {
	if total <= 1 {
		return 1
	}
	score := 1 - float64(index)/float64(total)
	if total > positionDampenAfter {
		damp := float64(positionDampenAfter) / float64(total)
		score = 0.5 + (score-0.5)*damp
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
