package layout

import (
	"math"
	"sort"
	"strings"
)

// baselineTolerance is the maximum vertical distance (in points) between
// runs that still count as the same visual baseline.
const baselineTolerance = 2.5

// Normalize groups raw TextRuns into Lines per page, orders them in reading
// order (page ascending, top-to-bottom, left-to-right within a line), and
// computes document-wide font statistics. A document with zero extractable
// runs yields an empty Document, not an error.
func Normalize(name string, runs []TextRun) *Document {
	doc := &Document{Name: name}

	byPage := make(map[int][]TextRun)
	pages := []int{}
	for _, r := range runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if _, ok := byPage[r.Page]; !ok {
			pages = append(pages, r.Page)
		}
		byPage[r.Page] = append(byPage[r.Page], r)
	}
	sort.Ints(pages)

	for _, p := range pages {
		doc.Lines = append(doc.Lines, groupPage(byPage[p])...)
	}

	doc.Stats = ComputeStats(doc.Lines)
	return doc
}

// groupPage merges a single page's runs into baseline lines.
func groupPage(runs []TextRun) []Line {
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Y0 != runs[j].Y0 {
			return runs[i].Y0 < runs[j].Y0
		}
		return runs[i].X0 < runs[j].X0
	})

	var lines []Line
	var current []TextRun
	baseline := math.Inf(-1)

	flush := func() {
		if len(current) > 0 {
			lines = append(lines, buildLine(current))
			current = nil
		}
	}

	for _, r := range runs {
		if len(current) > 0 && math.Abs(r.Y0-baseline) > baselineTolerance {
			flush()
		}
		if len(current) == 0 {
			baseline = r.Y0
		}
		current = append(current, r)
	}
	flush()

	return lines
}

// buildLine derives the Line attributes from its runs. The dominant font
// size is the size of the longest run; boldness follows the majority of
// text length.
func buildLine(runs []TextRun) Line {
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X0 < runs[j].X0 })

	var sb strings.Builder
	var boldLen, italicLen, totalLen int
	longest := 0
	dominant := runs[0].FontSize

	for i, r := range runs {
		t := strings.TrimSpace(r.Text)
		if t == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t)

		n := len(t)
		totalLen += n
		if r.Bold {
			boldLen += n
		}
		if r.Italic {
			italicLen += n
		}
		if n > longest || i == 0 {
			longest = n
			dominant = r.FontSize
		}
	}

	return Line{
		Runs:     runs,
		Text:     sb.String(),
		FontSize: roundSize(dominant),
		Page:     runs[0].Page,
		Y:        runs[0].Y0,
		Bold:     totalLen > 0 && boldLen*2 >= totalLen,
		Italic:   totalLen > 0 && italicLen*2 >= totalLen,
	}
}

// roundSize snaps a font size to one decimal to stabilize float noise from
// extractors before sizes are compared or counted.
func roundSize(s float64) float64 {
	return math.Round(s*10) / 10
}
