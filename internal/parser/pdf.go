package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/docsight/docsight/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser extracts styled text runs from PDF files using per-glyph font
// and position data.
type PDFParser struct{}

// wordGapRatio is the fraction of the font size a horizontal gap must exceed
// to count as a word boundary between glyphs.
const wordGapRatio = 0.3

// glyphRowTolerance groups glyphs onto the same baseline (in points).
const glyphRowTolerance = 2.0

func (p *PDFParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docsight-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	runs, err := extractPDFRuns(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return layout.Normalize(filename, runs), nil
}

func extractPDFRuns(path string) ([]layout.TextRun, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var runs []layout.TextRun
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}
		runs = append(runs, pageRuns(content.Text, i-1)...)
	}
	return runs, nil
}

// pageRuns groups a page's glyphs into baseline rows, then merges adjacent
// glyphs of the same font into word-joined runs. PDF coordinates grow upward,
// so rows are emitted in descending Y and converted to top-down positions.
func pageRuns(glyphs []pdflib.Text, pageIdx int) []layout.TextRun {
	maxY := 0.0
	for _, g := range glyphs {
		if g.Y > maxY {
			maxY = g.Y
		}
	}

	rows := groupRows(glyphs)

	var runs []layout.TextRun
	for _, row := range rows {
		sort.SliceStable(row, func(a, b int) bool { return row[a].X < row[b].X })
		runs = append(runs, rowRuns(row, maxY, pageIdx)...)
	}
	return runs
}

// groupRows buckets glyphs by baseline and returns rows ordered top-to-bottom.
func groupRows(glyphs []pdflib.Text) [][]pdflib.Text {
	sorted := make([]pdflib.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y > sorted[j].Y })

	var rows [][]pdflib.Text
	var current []pdflib.Text
	baseline := math.Inf(1)

	for _, g := range sorted {
		if strings.TrimSpace(g.S) == "" && len(current) == 0 {
			continue
		}
		if len(current) > 0 && math.Abs(g.Y-baseline) > glyphRowTolerance {
			rows = append(rows, current)
			current = nil
		}
		if len(current) == 0 {
			baseline = g.Y
		}
		current = append(current, g)
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}
	return rows
}

// rowRuns merges one baseline row of glyphs into runs, starting a new run
// whenever the font face or size changes.
func rowRuns(row []pdflib.Text, maxY float64, pageIdx int) []layout.TextRun {
	var runs []layout.TextRun
	var sb strings.Builder
	var cur pdflib.Text
	startX, lastEnd := 0.0, 0.0

	flush := func() {
		text := strings.TrimSpace(sb.String())
		if text != "" {
			runs = append(runs, layout.TextRun{
				Text:     text,
				FontSize: cur.FontSize,
				FontName: cur.Font,
				Bold:     fontIsBold(cur.Font),
				Italic:   fontIsItalic(cur.Font),
				X0:       startX,
				Y0:       maxY - cur.Y,
				X1:       lastEnd,
				Y1:       maxY - cur.Y + cur.FontSize,
				Page:     pageIdx,
			})
		}
		sb.Reset()
	}

	for _, g := range row {
		sameRun := sb.Len() > 0 && g.Font == cur.Font &&
			math.Abs(g.FontSize-cur.FontSize) < 0.1
		if !sameRun {
			flush()
			cur = g
			startX = g.X
		} else if g.X-lastEnd > wordGapRatio*cur.FontSize {
			sb.WriteByte(' ')
		}
		sb.WriteString(g.S)
		lastEnd = g.X + g.W
	}
	flush()

	return runs
}

func fontIsBold(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "bold") || strings.Contains(n, "black") || strings.Contains(n, "heavy")
}

func fontIsItalic(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "italic") || strings.Contains(n, "oblique")
}
