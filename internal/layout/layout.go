package layout

// TextRun is a minimal styled text fragment as emitted by a format parser.
// Coordinates are top-down: smaller Y means closer to the top of the page.
type TextRun struct {
	Text     string
	FontSize float64
	FontName string
	Bold     bool
	Italic   bool
	X0, Y0   float64
	X1, Y1   float64
	Page     int // 0-based
}

// Line is an ordered group of TextRuns judged to share a visual baseline,
// with derived attributes used by the title detector and heading classifier.
type Line struct {
	Runs     []TextRun
	Text     string
	FontSize float64 // dominant size (size of the longest run)
	Page     int
	Y        float64
	Bold     bool // majority of runs by text length are bold
	Italic   bool
}

// Document is the normalized form of one parsed input file.
type Document struct {
	Name  string
	Lines []Line // ordered by page, then top-to-bottom
	Stats Stats
}

// WordCount returns the number of whitespace-separated words in the line.
func (l Line) WordCount() int {
	n := 0
	inWord := false
	for _, r := range l.Text {
		if r == ' ' || r == '\t' || r == '\n' {
			inWord = false
		} else if !inWord {
			inWord = true
			n++
		}
	}
	return n
}
