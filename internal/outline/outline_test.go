package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsight/docsight/internal/layout"
)

// makeDoc builds a normalized document from pre-shaped lines, computing
// stats the same way the parsers do.
func makeDoc(name string, lines []layout.Line) *layout.Document {
	return &layout.Document{
		Name:  name,
		Lines: lines,
		Stats: layout.ComputeStats(lines),
	}
}

func line(text string, size, y float64, page int, bold bool) layout.Line {
	return layout.Line{Text: text, FontSize: size, Y: y, Page: page, Bold: bold}
}

func TestExtract_TitleOnlyDocument(t *testing.T) {
	doc := makeDoc("report.pdf", []layout.Line{
		line("Market Report 2024", 24, 72, 0, true),
		line("the market grew steadily through the year.", 11, 120, 0, false),
		line("growth was driven by several segments.", 11, 140, 0, false),
		line("analysts expect the trend to continue.", 11, 160, 0, false),
		line("figures are reported in millions.", 11, 180, 0, false),
	})

	res := Extract(doc, DefaultPolicy())

	assert.Equal(t, "Market Report 2024", res.Title)
	assert.Empty(t, res.Headings, "prominent title must not appear as a heading")
	assert.Equal(t, -1, res.Levels[0], "title line must be marked consumed")
	for i := 1; i < len(res.Levels); i++ {
		assert.Equal(t, 0, res.Levels[i], "body lines must stay body")
	}
	assert.Empty(t, res.Entries())
}

func TestExtract_NumberedHeadingHierarchy(t *testing.T) {
	doc := makeDoc("paper.pdf", []layout.Line{
		line("1. Introduction", 18, 72, 0, false),
		line("the study begins with context.", 10, 100, 0, false),
		line("1.1 Background", 14, 120, 0, false),
		line("earlier work is reviewed here.", 10, 140, 0, false),
		line("2. Methodology", 18, 72, 1, false),
		line("the survey design is described.", 10, 100, 1, false),
	})

	res := Extract(doc, DefaultPolicy())

	assert.Equal(t, "", res.Title, "numbered headings never become the title")
	require.Len(t, res.Headings, 3)
	entries := res.Entries()
	assert.Equal(t, Entry{Level: "H1", Text: "1. Introduction", Page: 0}, entries[0])
	assert.Equal(t, Entry{Level: "H2", Text: "1.1 Background", Page: 0}, entries[1])
	assert.Equal(t, Entry{Level: "H1", Text: "2. Methodology", Page: 1}, entries[2])
}

func TestExtract_EmptyDocument(t *testing.T) {
	doc := makeDoc("empty.pdf", nil)
	res := Extract(doc, DefaultPolicy())

	assert.Equal(t, "", res.Title)
	assert.Empty(t, res.Headings)
	assert.Empty(t, res.Entries())
}

func TestExtract_NumberingDepthOverridesSize(t *testing.T) {
	// "1.1 Background" rendered at H1 size must still be H2: numbering depth
	// is the stronger signal.
	doc := makeDoc("odd.pdf", []layout.Line{
		line("1.1 Background", 18, 72, 0, false),
		line("body text sits below the heading.", 10, 100, 0, false),
		line("more body text follows here.", 10, 120, 0, false),
	})

	res := Extract(doc, DefaultPolicy())

	require.Len(t, res.Headings, 1)
	assert.Equal(t, 2, res.Headings[0].Level)
}

func TestThresholds_FromDistinctSizes(t *testing.T) {
	lines := []layout.Line{
		line("a", 20, 0, 0, false),
		line("b", 16, 0, 0, false),
		line("c", 13, 0, 0, false),
		line("d", 10, 0, 0, false),
		line("e", 10, 0, 0, false),
	}
	stats := layout.ComputeStats(lines)
	require.Equal(t, 10.0, stats.DominantSize)

	h1, h2, h3 := DefaultPolicy().Thresholds(stats, 0)
	assert.Equal(t, 20.0, h1)
	assert.Equal(t, 16.0, h2)
	assert.Equal(t, 13.0, h3)
}

func TestThresholds_RatioFallback(t *testing.T) {
	lines := []layout.Line{
		line("a", 10, 0, 0, false),
		line("b", 10, 0, 0, false),
	}
	stats := layout.ComputeStats(lines)

	h1, h2, h3 := DefaultPolicy().Thresholds(stats, 0)
	assert.InDelta(t, 15.0, h1, 1e-9)
	assert.InDelta(t, 13.0, h2, 1e-9)
	assert.InDelta(t, 11.0, h3, 1e-9)
}

func TestThresholds_ExcludesTitleSize(t *testing.T) {
	lines := []layout.Line{
		line("title", 28, 0, 0, false),
		line("head", 18, 0, 0, false),
		line("body", 11, 0, 0, false),
		line("body", 11, 0, 0, false),
	}
	stats := layout.ComputeStats(lines)

	h1, _, _ := DefaultPolicy().Thresholds(stats, 28)
	assert.Equal(t, 18.0, h1, "title size must not occupy a threshold slot")
}

func TestThresholds_Monotonic(t *testing.T) {
	lines := []layout.Line{
		line("a", 12, 0, 0, false),
		line("b", 10, 0, 0, false),
		line("c", 10, 0, 0, false),
	}
	stats := layout.ComputeStats(lines)

	h1, h2, h3 := DefaultPolicy().Thresholds(stats, 0)
	assert.GreaterOrEqual(t, h1, h2)
	assert.GreaterOrEqual(t, h2, h3)
}

func TestPatternMatch_NumberingDepth(t *testing.T) {
	tests := []struct {
		text   string
		forced int
	}{
		{"1. Introduction", 1},
		{"2.3 Analysis", 2},
		{"4.1.2 Edge Cases", 3},
		{"4.1.2.7 Deeply Nested", 3}, // capped at H3
		{"Chapter 5 The Journey", 1},
		{"Appendix A Notation", 1},
		{"Section 3 Rules", 2},
		{"B. Supplementary", 2},
		{"Introduction", 1},
		{"References", 1},
	}
	for _, tt := range tests {
		forced, matched := patternMatch(layout.Line{Text: tt.text})
		assert.True(t, matched, "expected %q to match", tt.text)
		assert.Equal(t, tt.forced, forced, "level for %q", tt.text)
	}
}

func TestPatternMatch_StyleOnlyCandidates(t *testing.T) {
	forced, matched := patternMatch(layout.Line{Text: "EXPERIMENTAL RESULTS"})
	assert.True(t, matched)
	assert.Equal(t, 0, forced, "all-caps qualifies without forcing a level")

	forced, matched = patternMatch(layout.Line{Text: "Data Preparation", Bold: true})
	assert.True(t, matched)
	assert.Equal(t, 0, forced)

	_, matched = patternMatch(layout.Line{Text: "this is a plain sentence of body text"})
	assert.False(t, matched)

	// Long all-caps is shouting body text, not a heading.
	_, matched = patternMatch(layout.Line{Text: "THIS ENTIRE PARAGRAPH IS WRITTEN IN CAPITAL LETTERS FOR EMPHASIS PURPOSES"})
	assert.False(t, matched)
}

func TestClassify_RunningHeaderDeduplication(t *testing.T) {
	doc := makeDoc("dup.pdf", []layout.Line{
		line("Quarterly Summary", 24, 72, 0, true),
		line("Results", 18, 100, 0, false),
		line("Results", 18, 102, 0, false),
		line("findings are summarized below.", 10, 130, 0, false),
		line("totals appear in the last table.", 10, 150, 0, false),
		line("a final note closes the page.", 10, 170, 0, false),
	})

	res := Extract(doc, DefaultPolicy())
	assert.Equal(t, "Quarterly Summary", res.Title)
	require.Len(t, res.Headings, 1, "consecutive duplicate on the same page collapses")
	assert.Equal(t, "Results", res.Headings[0].Text)
}

func TestClassify_PerPageCap(t *testing.T) {
	pol := DefaultPolicy()
	pol.MaxHeadingsPerPage = 2

	doc := makeDoc("busy.pdf", []layout.Line{
		line("1. One", 18, 72, 0, false),
		line("2. Two", 18, 90, 0, false),
		line("3. Three", 14, 110, 0, false),
		line("body text keeps the stats honest.", 10, 130, 0, false),
		line("body text keeps the stats honest too.", 10, 150, 0, false),
	})

	res := Extract(doc, pol)
	assert.Len(t, res.Headings, 2)
	// The survivors are the highest-confidence ones, in reading order.
	assert.Equal(t, "1. One", res.Headings[0].Text)
	assert.Equal(t, "2. Two", res.Headings[1].Text)
}

func TestDetectTitle_SkipsNumberedHeadings(t *testing.T) {
	// The largest line is a numbered section heading: structurally not a
	// title, and no other candidate clears the floor.
	doc := makeDoc("paper.pdf", []layout.Line{
		line("1. Introduction", 18, 72, 0, false),
		line("the opening text sits here.", 10, 100, 0, false),
		line("and continues on this line.", 10, 120, 0, false),
	})

	title, idx, _ := detectTitle(doc, DefaultPolicy())
	assert.Equal(t, "", title)
	assert.Equal(t, -1, idx)
}

func TestCleanTitle_TruncatesAtWordBoundary(t *testing.T) {
	long := "An Exceedingly Comprehensive and Remarkably Detailed Survey of Approaches to Document Structure Extraction Methods"
	got := cleanTitle(long)
	assert.LessOrEqual(t, len(got), 100)
	assert.NotRegexp(t, `\s$`, got)
	// Must end on a whole word from the original.
	assert.Contains(t, long, got)
}

func TestContentScore_Penalties(t *testing.T) {
	assert.Greater(t, contentScore("A Clean Title Candidate"), contentScore("ends with a period."))
	assert.Greater(t, contentScore("A Clean Title Candidate"), contentScore("Page 3 of the report"))
	assert.Greater(t,
		contentScore("Short Caps OK"),
		contentScore("VERY LONG SHOUTING LINE THAT KEEPS GOING AND GOING"))
}
