package outline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/docsight/docsight/internal/layout"
)

// Heading is a classified line with its assigned level and confidence.
type Heading struct {
	LineIndex  int
	Level      int // 1=H1, 2=H2, 3=H3
	Text       string
	Page       int
	Confidence float64
}

// maxHeadingWords: lines longer than this are body text regardless of size.
const maxHeadingWords = 25

var (
	// Numbered-section prefixes: depth of numbering decides the level.
	reNumbering = regexp.MustCompile(`^(\d+)((?:\.\d+)*)\.?\s+\S`)
	reChapter   = regexp.MustCompile(`(?i)^(chapter|part)\s+\d+`)
	reSectionNo = regexp.MustCompile(`(?i)^section\s+\d+`)
	reAppendix  = regexp.MustCompile(`(?i)^appendix\s+[A-Z0-9]`)
	reLettered  = regexp.MustCompile(`^[A-Z]\.\s+\S`)
	reKnownHead = regexp.MustCompile(`(?i)^(abstract|introduction|conclusion|references|acknowledgements|acknowledgments|glossary|bibliography)\s*$`)
)

// patternMatch inspects a line for structural heading patterns. forced > 0
// pins the level (numbering is a stronger signal than font size); forced == 0
// with matched == true means the pattern only qualifies the line as a
// candidate and the level follows size inference.
func patternMatch(line layout.Line) (forced int, matched bool) {
	text := line.Text
	wc := line.WordCount()

	if m := reNumbering.FindStringSubmatch(text); m != nil {
		depth := 1 + strings.Count(m[2], ".")
		if depth > 3 {
			depth = 3
		}
		return depth, true
	}
	if reChapter.MatchString(text) || reAppendix.MatchString(text) {
		return 1, true
	}
	if reSectionNo.MatchString(text) || reLettered.MatchString(text) {
		return 2, true
	}
	if reKnownHead.MatchString(text) {
		return 1, true
	}
	if isAllCaps(text) && wc >= 1 && wc <= 8 {
		return 0, true
	}
	if line.Bold && wc >= 1 && wc <= 10 {
		return 0, true
	}
	return 0, false
}

// classify assigns a heading level to every line. The returned slice is
// aligned with doc.Lines: 0 means body text. The title line (if any) is
// excluded from heading candidacy.
func classify(doc *layout.Document, pol Policy, titleLine int, titleSize float64) []Heading {
	if doc.Stats.TotalLines == 0 || len(doc.Stats.DistinctSizes) == 0 {
		return nil
	}
	h1, h2, h3 := pol.Thresholds(doc.Stats, titleSize)

	var headings []Heading
	for i, line := range doc.Lines {
		if i == titleLine {
			continue
		}
		if len(line.Text) < 2 || line.WordCount() > maxHeadingWords {
			continue
		}

		sizeLevel := 0
		switch {
		case line.FontSize >= h1:
			sizeLevel = 1
		case line.FontSize >= h2:
			sizeLevel = 2
		case line.FontSize >= h3:
			sizeLevel = 3
		}

		forced, matched := patternMatch(line)

		level := sizeLevel
		if forced > 0 {
			// Numbering depth overrides size inference when they disagree.
			level = forced
		} else if matched && level == 0 {
			// Style-only patterns at body size: weakest heading level.
			level = 3
		}
		if level == 0 {
			continue
		}

		headings = append(headings, Heading{
			LineIndex:  i,
			Level:      level,
			Text:       line.Text,
			Page:       line.Page,
			Confidence: confidence(line.FontSize, h1, h3, matched),
		})
	}

	return postProcess(headings, pol)
}

// confidence combines how far the size exceeds the weakest threshold with
// whether a pattern matched. Used only for filtering, never for level.
func confidence(size, h1, h3 float64, patterned bool) float64 {
	sizeScore := 0.0
	if h1 > h3 {
		sizeScore = clamp01((size - h3) / (h1 - h3))
	} else if size >= h3 {
		sizeScore = 1.0
	}
	c := 0.6 * sizeScore
	if patterned {
		c += 0.4
	}
	return clamp01(c)
}

// postProcess removes running-header artifacts (consecutive duplicate text on
// the same page), drops low-confidence candidates, and applies per-page and
// total caps. Caps keep the highest-confidence candidates but preserve
// reading order.
func postProcess(headings []Heading, pol Policy) []Heading {
	var out []Heading
	for _, h := range headings {
		if h.Confidence < pol.MinConfidence {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Page == h.Page &&
			strings.EqualFold(out[n-1].Text, h.Text) {
			continue
		}
		out = append(out, h)
	}

	if pol.MaxHeadingsPerPage > 0 {
		out = capPerPage(out, pol.MaxHeadingsPerPage)
	}
	if pol.MaxHeadings > 0 && len(out) > pol.MaxHeadings {
		out = capTotal(out, pol.MaxHeadings)
	}
	return out
}

func capPerPage(headings []Heading, max int) []Heading {
	counts := make(map[int]int)
	keep := make(map[int]bool, len(headings))

	// First pass by descending confidence decides who survives each page.
	order := make([]int, len(headings))
	for i := range order {
		order[i] = i
	}
	sortByConfidence(order, headings)
	for _, idx := range order {
		page := headings[idx].Page
		if counts[page] < max {
			counts[page]++
			keep[idx] = true
		}
	}

	var out []Heading
	for i, h := range headings {
		if keep[i] {
			out = append(out, h)
		}
	}
	return out
}

func capTotal(headings []Heading, max int) []Heading {
	order := make([]int, len(headings))
	for i := range order {
		order[i] = i
	}
	sortByConfidence(order, headings)

	keep := make(map[int]bool, max)
	for _, idx := range order[:max] {
		keep[idx] = true
	}

	var out []Heading
	for i, h := range headings {
		if keep[i] {
			out = append(out, h)
		}
	}
	return out
}

// sortByConfidence orders indices by descending confidence, stable on the
// original reading order.
func sortByConfidence(order []int, headings []Heading) {
	sort.SliceStable(order, func(a, b int) bool {
		return headings[order[a]].Confidence > headings[order[b]].Confidence
	})
}
