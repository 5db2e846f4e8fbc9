// Package section turns a classified line stream into contiguous sections,
// each owned by one heading (or a synthetic preamble), and classifies each
// section's content type for relevance scoring.
package section

import (
	"strings"

	"github.com/docsight/docsight/internal/layout"
)

// Type is the content classification used by the persona affinity tables.
type Type string

const (
	TypeMethodology  Type = "methodology"
	TypeResults      Type = "results"
	TypeIntroduction Type = "introduction"
	TypeDiscussion   Type = "discussion"
	TypeFinancial    Type = "financial"
	TypeConceptual   Type = "conceptual"
	TypeOther        Type = "other"
)

// Section is a heading plus the body lines it owns. Index is the section's
// ordinal within its document; DocOrder is the document's ordinal within the
// collection (used for tie-breaking in selection).
type Section struct {
	Document string
	DocOrder int
	Heading  string
	Level    int // 1..3; 0 for the synthetic preamble
	Page     int
	EndPage  int
	Index    int
	Type     Type
	Body     []layout.Line
}

// Text concatenates the body lines into the section's raw text.
func (s *Section) Text() string {
	var sb strings.Builder
	for _, l := range s.Body {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(l.Text)
	}
	return sb.String()
}

// WordCount counts words across the body lines.
func (s *Section) WordCount() int {
	n := 0
	for _, l := range s.Body {
		n += l.WordCount()
	}
	return n
}

// Segment walks the document's lines with their assigned levels (aligned
// slices; 0 = body, 1..3 = heading, -1 = title line). Every heading starts a
// new section; body lines accumulate into the most recent section. Content
// before the first heading becomes a synthetic preamble with no heading text.
// Every body line belongs to exactly one section and sections never overlap.
func Segment(doc *layout.Document, levels []int) []*Section {
	var sections []*Section
	var current *Section

	start := func(heading string, level, page int) *Section {
		s := &Section{
			Document: doc.Name,
			Heading:  heading,
			Level:    level,
			Page:     page,
			EndPage:  page,
			Index:    len(sections),
		}
		sections = append(sections, s)
		return s
	}

	for i, line := range doc.Lines {
		level := levels[i]
		switch {
		case level == -1:
			// Title line is owned by nothing.
		case level > 0:
			current = start(line.Text, level, line.Page)
		default:
			if current == nil {
				current = start("", 0, line.Page)
			}
			current.Body = append(current.Body, line)
			if line.Page > current.EndPage {
				current.EndPage = line.Page
			}
		}
	}

	for _, s := range sections {
		s.Type = ClassifyType(s.Heading, s.Text())
	}
	return sections
}

// Keyword tables for section-type classification. Heading matches take
// priority over body matches.
var typeKeywords = []struct {
	t     Type
	words []string
}{
	{TypeMethodology, []string{"methodology", "methods", "method", "approach", "procedure", "experimental setup", "materials"}},
	{TypeResults, []string{"results", "findings", "outcomes", "evaluation", "performance"}},
	{TypeIntroduction, []string{"introduction", "background", "overview", "abstract", "summary", "preface"}},
	{TypeDiscussion, []string{"discussion", "analysis", "interpretation", "limitations", "conclusion"}},
	{TypeFinancial, []string{"revenue", "financial", "earnings", "income", "profit", "cash flow", "balance sheet", "market"}},
	{TypeConceptual, []string{"concept", "theory", "principle", "definition", "framework", "fundamentals"}},
}

// ClassifyType assigns a section type from heading keywords, falling back to
// a light scan of the opening body text.
func ClassifyType(heading, body string) Type {
	h := strings.ToLower(heading)
	for _, tk := range typeKeywords {
		for _, w := range tk.words {
			if strings.Contains(h, w) {
				return tk.t
			}
		}
	}

	// Fall back to the first stretch of body text.
	lead := strings.ToLower(body)
	if len(lead) > 400 {
		lead = lead[:400]
	}
	for _, tk := range typeKeywords {
		for _, w := range tk.words {
			if strings.Contains(lead, w) {
				return tk.t
			}
		}
	}
	return TypeOther
}
