package outline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/docsight/docsight/internal/layout"
)

// Title scoring weights (composite = weighted sum of four [0,1] sub-scores).
const (
	titleSizeWeight     = 0.4
	titlePositionWeight = 0.2
	titleContentWeight  = 0.2
	titleStyleWeight    = 0.2
)

// titleCandidateLimit bounds how deep into page 0 the detector looks.
const titleCandidateLimit = 15

var (
	reLeadingNumber = regexp.MustCompile(`^\d+\.`)
	reBoilerplate   = regexp.MustCompile(`(?i)^(page|figure|table)\s`)
)

// detectTitle scores page-0 lines and returns the best title text, the index
// of the chosen line within doc.Lines, and its font size. When no candidate
// clears the policy floor it returns an empty title and index -1.
func detectTitle(doc *layout.Document, pol Policy) (string, int, float64) {
	maxSize := layout.MaxSizeOnPage(doc.Lines, 0)
	if maxSize == 0 {
		return "", -1, 0
	}
	top, bottom, ok := layout.PageExtent(doc.Lines, 0)
	if !ok {
		return "", -1, 0
	}

	bestScore := 0.0
	bestIdx := -1
	seen := 0

	for i, line := range doc.Lines {
		if line.Page != 0 {
			break
		}
		if seen >= titleCandidateLimit {
			break
		}
		seen++

		if len(line.Text) < 3 {
			continue
		}
		// Numbered section prefixes mark structural headings, never titles.
		if reLeadingNumber.MatchString(line.Text) {
			continue
		}

		score := titleSizeWeight*(line.FontSize/maxSize) +
			titlePositionWeight*positionScore(line.Y, top, bottom, pol.TitleTopFraction) +
			titleContentWeight*contentScore(line.Text) +
			titleStyleWeight*styleScore(line)

		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < pol.MinTitleScore {
		return "", -1, 0
	}
	return cleanTitle(doc.Lines[bestIdx].Text), bestIdx, doc.Lines[bestIdx].FontSize
}

// positionScore is the inverse of the normalized vertical position: 1.0 at
// the top of the page, falling to zero at topFraction of the page extent.
func positionScore(y, top, bottom, topFraction float64) float64 {
	if bottom <= top {
		return 1.0
	}
	rel := (y - top) / (bottom - top)
	if rel >= topFraction {
		return 0
	}
	return 1 - rel/topFraction
}

// contentScore is a heuristic text-quality score: rewards title-like length
// and casing, penalizes numbering, boilerplate, and body-text punctuation.
func contentScore(text string) float64 {
	words := strings.Fields(text)
	wc := len(words)

	score := 0.0
	switch {
	case wc >= 3 && wc <= 20:
		score += 0.5
	case wc > 20 && wc <= 25:
		score += 0.3
	}

	upper := isAllCaps(text)
	switch {
	case !upper && isTitleCase(words):
		score += 0.3
	case upper && wc > 6:
		score -= 0.3
	}

	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, ",") || strings.HasSuffix(text, ";") {
		score -= 0.3
	}
	if reLeadingNumber.MatchString(text) || reBoilerplate.MatchString(text) {
		score -= 0.5
	}

	return clamp01(score)
}

func styleScore(line layout.Line) float64 {
	if line.Bold {
		return 1.0
	}
	if line.Italic {
		return 0.5
	}
	return 0
}

// cleanTitle collapses whitespace and truncates over-long candidates at a
// word boundary.
func cleanTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	if len(title) > 100 {
		words := strings.Fields(title[:100])
		if len(words) > 1 {
			title = strings.Join(words[:len(words)-1], " ")
		}
	}
	return title
}

func isAllCaps(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

// isTitleCase accepts title case and sentence case: the first word must be
// capitalized and most words must not be shouting.
func isTitleCase(words []string) bool {
	if len(words) == 0 {
		return false
	}
	first := []rune(words[0])
	return len(first) > 0 && unicode.IsUpper(first[0])
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
