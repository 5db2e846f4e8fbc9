package layout

import "sort"

// Stats summarizes a document's font-size distribution. Computed once per
// document and read-only afterward.
type Stats struct {
	DominantSize  float64         // statistical mode of line sizes; ties broken by larger size
	DistinctSizes []float64       // distinct line sizes, descending
	SizeCounts    map[float64]int // occurrences per distinct size
	LinesPerPage  map[int]int
	TotalLines    int
}

// ComputeStats derives the size distribution from normalized lines. A
// document with no lines yields zero-valued stats; callers short-circuit to
// an empty outline in that case.
func ComputeStats(lines []Line) Stats {
	s := Stats{
		SizeCounts:   make(map[float64]int),
		LinesPerPage: make(map[int]int),
	}
	for _, l := range lines {
		s.SizeCounts[l.FontSize]++
		s.LinesPerPage[l.Page]++
		s.TotalLines++
	}

	for size := range s.SizeCounts {
		s.DistinctSizes = append(s.DistinctSizes, size)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(s.DistinctSizes)))

	for _, size := range s.DistinctSizes {
		n := s.SizeCounts[size]
		if n > s.SizeCounts[s.DominantSize] ||
			(n == s.SizeCounts[s.DominantSize] && size > s.DominantSize) {
			s.DominantSize = size
		}
	}
	return s
}

// MaxSizeOnPage returns the largest line size on a page, or 0 if the page
// has no lines.
func MaxSizeOnPage(lines []Line, page int) float64 {
	max := 0.0
	for _, l := range lines {
		if l.Page == page && l.FontSize > max {
			max = l.FontSize
		}
	}
	return max
}

// PageExtent returns the min and max Y of lines on a page. Used to normalize
// vertical positions for title scoring.
func PageExtent(lines []Line, page int) (top, bottom float64, ok bool) {
	for _, l := range lines {
		if l.Page != page {
			continue
		}
		if !ok {
			top, bottom, ok = l.Y, l.Y, true
			continue
		}
		if l.Y < top {
			top = l.Y
		}
		if l.Y > bottom {
			bottom = l.Y
		}
	}
	return top, bottom, ok
}
