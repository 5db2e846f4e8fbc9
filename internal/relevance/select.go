package relevance

import "sort"

// SelectOptions tune the diversity-aware selector.
type SelectOptions struct {
	TopK            int     // number of sections in the final ranking
	MaxPerDocument  int     // diversity ceiling per source document
	MinScore        float64 // quality filter applied before selection
	ExcerptMaxChars int     // bound on refined excerpt length
}

// DefaultSelectOptions returns the baseline selector settings.
func DefaultSelectOptions() SelectOptions {
	return SelectOptions{
		TopK:            5,
		MaxPerDocument:  3,
		MinScore:        0.25,
		ExcerptMaxChars: 500,
	}
}

// Ranked is a selected section with its dense importance rank and refined
// excerpt text.
type Ranked struct {
	ScoredSection
	Rank        int
	RefinedText string
}

// Select ranks all scored sections, applies the quality filter, and picks
// the top-K under the diversity constraint: after the global best, the
// next-best section from an unrepresented document is preferred over a
// second section from a represented one. The per-document ceiling is only
// relaxed when too few documents qualify to fill K. Ranks are dense 1..K.
func Select(scored []ScoredSection, opts SelectOptions) []Ranked {
	pool := make([]ScoredSection, 0, len(scored))
	for _, s := range scored {
		if s.Score >= opts.MinScore {
			pool = append(pool, s)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DocOrder != b.DocOrder {
			return a.DocOrder < b.DocOrder
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.Index < b.Index
	})

	taken := make([]bool, len(pool))
	perDoc := make(map[string]int)
	var picked []ScoredSection

	take := func(i int) {
		taken[i] = true
		perDoc[pool[i].Document]++
		picked = append(picked, pool[i])
	}

	// Global best first.
	if len(pool) > 0 && opts.TopK > 0 {
		take(0)
	}

	// Cover unrepresented documents in score order.
	for len(picked) < opts.TopK {
		best := -1
		for i, s := range pool {
			if !taken[i] && perDoc[s.Document] == 0 {
				best = i
				break
			}
		}
		if best < 0 {
			break
		}
		take(best)
	}

	// Fill remaining slots under the per-document ceiling.
	for i := range pool {
		if len(picked) >= opts.TopK {
			break
		}
		if !taken[i] && perDoc[pool[i].Document] < opts.MaxPerDocument {
			take(i)
		}
	}

	// Relax the ceiling only if the pool cannot otherwise fill K.
	for i := range pool {
		if len(picked) >= opts.TopK {
			break
		}
		if !taken[i] {
			take(i)
		}
	}

	// Ranks follow score order within the selected set, not pick order.
	sort.SliceStable(picked, func(i, j int) bool {
		a, b := picked[i], picked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.DocOrder != b.DocOrder {
			return a.DocOrder < b.DocOrder
		}
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.Index < b.Index
	})

	out := make([]Ranked, 0, len(picked))
	for rank, s := range picked {
		out = append(out, Ranked{
			ScoredSection: s,
			Rank:          rank + 1,
			RefinedText:   RefineExcerpt(s.Text(), opts.ExcerptMaxChars),
		})
	}
	return out
}
