package outline

import "github.com/docsight/docsight/internal/layout"

// Policy carries the classification rules and threshold functions injected
// into the extractor. Tests substitute synthetic values; production uses
// DefaultPolicy, optionally tuned through config.
type Policy struct {
	// Fallback multipliers over the dominant body size, used when the
	// document has too few distinct sizes to derive thresholds directly.
	H1Ratio float64
	H2Ratio float64
	H3Ratio float64

	// MinTitleScore is the floor a page-0 candidate must clear to become
	// the title. Below it the document title is the empty string.
	MinTitleScore float64

	// TitleTopFraction: candidates below this fraction of the page-0
	// vertical extent score zero on position.
	TitleTopFraction float64

	// MinConfidence filters weak heading candidates after classification.
	MinConfidence float64

	// Caps guarding against over-detection on decorative documents.
	MaxHeadingsPerPage int
	MaxHeadings        int
}

// DefaultPolicy returns the baseline rules validated against representative
// documents.
func DefaultPolicy() Policy {
	return Policy{
		H1Ratio:            1.5,
		H2Ratio:            1.3,
		H3Ratio:            1.1,
		MinTitleScore:      0.4,
		TitleTopFraction:   0.5,
		MinConfidence:      0.35,
		MaxHeadingsPerPage: 5,
		MaxHeadings:        50,
	}
}

// Thresholds derives the per-document H1/H2/H3 size cutoffs from the size
// distribution. Distinct sizes above the dominant body size fill the slots
// largest-first, skipping the title size; missing slots fall back to ratio
// multiples of the dominant size. Cutoffs are kept monotonic.
func (p Policy) Thresholds(stats layout.Stats, titleSize float64) (h1, h2, h3 float64) {
	d := stats.DominantSize
	h1, h2, h3 = d*p.H1Ratio, d*p.H2Ratio, d*p.H3Ratio

	var above []float64
	for _, s := range stats.DistinctSizes {
		if s > d && s != titleSize {
			above = append(above, s)
		}
	}
	if len(above) > 0 {
		h1 = above[0]
	}
	if len(above) > 1 {
		h2 = above[1]
	}
	if len(above) > 2 {
		h3 = above[2]
	}

	if h2 > h1 {
		h2 = h1
	}
	if h3 > h2 {
		h3 = h2
	}
	return h1, h2, h3
}
