// Package outline turns a normalized document into a title and a
// hierarchical H1/H2/H3 heading outline using per-document adaptive size
// thresholds and structural pattern rules.
package outline

import "github.com/docsight/docsight/internal/layout"

// Entry is one outline record in the output contract.
type Entry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// Result is the extracted structure of one document. Levels is aligned with
// the document's lines: 0 = body text, 1..3 = heading level, -1 = the line
// consumed as the title.
type Result struct {
	Title    string
	Headings []Heading
	Levels   []int
}

// Extract runs title detection and heading classification on a normalized
// document. A document with no lines yields an empty result, never an error.
func Extract(doc *layout.Document, pol Policy) Result {
	res := Result{Levels: make([]int, len(doc.Lines))}
	if doc.Stats.TotalLines == 0 {
		return res
	}

	title, titleLine, titleSize := detectTitle(doc, pol)
	res.Title = title
	if titleLine >= 0 {
		res.Levels[titleLine] = -1
	}

	res.Headings = classify(doc, pol, titleLine, titleSize)
	for _, h := range res.Headings {
		res.Levels[h.LineIndex] = h.Level
	}
	return res
}

// Entries renders the headings in the output wire format.
func (r Result) Entries() []Entry {
	entries := make([]Entry, 0, len(r.Headings))
	for _, h := range r.Headings {
		entries = append(entries, Entry{Level: levelName(h.Level), Text: h.Text, Page: h.Page})
	}
	return entries
}

func levelName(level int) string {
	switch level {
	case 1:
		return "H1"
	case 2:
		return "H2"
	default:
		return "H3"
	}
}
