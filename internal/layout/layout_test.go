package layout

import (
	"testing"
)

func run(text string, size, x, y float64, page int) TextRun {
	return TextRun{Text: text, FontSize: size, X0: x, Y0: y, X1: x + 10, Y1: y + size, Page: page}
}

func TestNormalize_GroupsBaselineRuns(t *testing.T) {
	runs := []TextRun{
		run("world", 12, 50, 100.8, 0), // within tolerance of 100
		run("Hello", 12, 10, 100, 0),
	}
	doc := Normalize("doc.pdf", runs)

	if len(doc.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Text != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", doc.Lines[0].Text)
	}
}

func TestNormalize_SplitsDistantBaselines(t *testing.T) {
	runs := []TextRun{
		run("First line", 12, 10, 100, 0),
		run("Second line", 12, 10, 114, 0),
	}
	doc := Normalize("doc.pdf", runs)

	if len(doc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(doc.Lines))
	}
	if doc.Lines[0].Text != "First line" || doc.Lines[1].Text != "Second line" {
		t.Errorf("unexpected line order: %q, %q", doc.Lines[0].Text, doc.Lines[1].Text)
	}
}

func TestNormalize_ReadingOrderAcrossPages(t *testing.T) {
	runs := []TextRun{
		run("page two", 12, 10, 50, 1),
		run("page one bottom", 12, 10, 500, 0),
		run("page one top", 12, 10, 50, 0),
	}
	doc := Normalize("doc.pdf", runs)

	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(doc.Lines))
	}
	want := []string{"page one top", "page one bottom", "page two"}
	for i, w := range want {
		if doc.Lines[i].Text != w {
			t.Errorf("line[%d]: expected %q, got %q", i, w, doc.Lines[i].Text)
		}
	}
}

func TestNormalize_DropsEmptyRuns(t *testing.T) {
	runs := []TextRun{
		run("   ", 12, 10, 100, 0),
		run("", 12, 10, 120, 0),
	}
	doc := Normalize("doc.pdf", runs)

	if len(doc.Lines) != 0 {
		t.Errorf("expected 0 lines, got %d", len(doc.Lines))
	}
	if doc.Stats.TotalLines != 0 {
		t.Errorf("expected 0 total lines in stats, got %d", doc.Stats.TotalLines)
	}
}

func TestBuildLine_DominantSizeFromLongestRun(t *testing.T) {
	runs := []TextRun{
		run("1.", 14, 10, 100, 0),
		run("Introduction to the method", 12, 30, 100, 0),
	}
	doc := Normalize("doc.pdf", runs)

	if len(doc.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(doc.Lines))
	}
	if doc.Lines[0].FontSize != 12 {
		t.Errorf("expected dominant size 12, got %v", doc.Lines[0].FontSize)
	}
}

func TestBuildLine_BoldMajority(t *testing.T) {
	bold := run("Methodology Overview", 12, 10, 100, 0)
	bold.Bold = true
	plain := run("(cont.)", 12, 200, 100, 0)

	doc := Normalize("doc.pdf", []TextRun{bold, plain})
	if len(doc.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(doc.Lines))
	}
	if !doc.Lines[0].Bold {
		t.Error("expected line to be bold when most text is bold")
	}
}

func TestComputeStats_DominantIsMode(t *testing.T) {
	lines := []Line{
		{Text: "a", FontSize: 11, Page: 0},
		{Text: "b", FontSize: 11, Page: 0},
		{Text: "c", FontSize: 11, Page: 1},
		{Text: "d", FontSize: 18, Page: 1},
	}
	s := ComputeStats(lines)

	if s.DominantSize != 11 {
		t.Errorf("expected dominant size 11, got %v", s.DominantSize)
	}
	if s.TotalLines != 4 {
		t.Errorf("expected 4 total lines, got %d", s.TotalLines)
	}
	if s.LinesPerPage[0] != 2 || s.LinesPerPage[1] != 2 {
		t.Errorf("unexpected lines per page: %v", s.LinesPerPage)
	}
	if len(s.DistinctSizes) != 2 || s.DistinctSizes[0] != 18 || s.DistinctSizes[1] != 11 {
		t.Errorf("expected distinct sizes [18 11], got %v", s.DistinctSizes)
	}
}

func TestComputeStats_TieBreaksToLargerSize(t *testing.T) {
	lines := []Line{
		{Text: "a", FontSize: 10, Page: 0},
		{Text: "b", FontSize: 12, Page: 0},
	}
	s := ComputeStats(lines)
	if s.DominantSize != 12 {
		t.Errorf("expected tie to break to larger size 12, got %v", s.DominantSize)
	}
}

func TestMaxSizeOnPage(t *testing.T) {
	lines := []Line{
		{Text: "a", FontSize: 24, Page: 0},
		{Text: "b", FontSize: 11, Page: 0},
		{Text: "c", FontSize: 30, Page: 1},
	}
	if got := MaxSizeOnPage(lines, 0); got != 24 {
		t.Errorf("expected 24 on page 0, got %v", got)
	}
	if got := MaxSizeOnPage(lines, 2); got != 0 {
		t.Errorf("expected 0 for empty page, got %v", got)
	}
}

func TestPageExtent(t *testing.T) {
	lines := []Line{
		{Text: "a", Y: 72, Page: 0},
		{Text: "b", Y: 700, Page: 0},
		{Text: "c", Y: 50, Page: 1},
	}
	top, bottom, ok := PageExtent(lines, 0)
	if !ok {
		t.Fatal("expected extent for page 0")
	}
	if top != 72 || bottom != 700 {
		t.Errorf("expected extent [72, 700], got [%v, %v]", top, bottom)
	}
	if _, _, ok := PageExtent(lines, 5); ok {
		t.Error("expected no extent for missing page")
	}
}

func TestLine_WordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"1. Introduction to Methods", 4},
		{"  spaced   out  ", 2},
	}
	for _, tt := range tests {
		l := Line{Text: tt.text}
		if got := l.WordCount(); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
