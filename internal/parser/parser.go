package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/docsight/docsight/internal/layout"
)

// Parser converts raw document bytes into a normalized layout.Document of
// styled text runs grouped into lines and pages.
type Parser interface {
	Parse(r io.Reader, filename string) (*layout.Document, error)
}

// Synthetic font sizes for formats whose headings are explicit markup rather
// than measured glyphs. Chosen so the adaptive classifier resolves markup
// levels the same way it resolves measured PDF sizes.
const (
	sizeBody     float64 = 11
	sizeH6       float64 = 12
	sizeH5       float64 = 12.5
	sizeH4       float64 = 13
	sizeH3       float64 = 14.5
	sizeH2       float64 = 18
	sizeH1       float64 = 24
	sizeDocTitle float64 = 28
)

// syntheticLineHeight spaces synthetic runs vertically so position-based
// scoring still behaves for markup formats.
const syntheticLineHeight = 14

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// headingSize maps a markup heading level (1-6) to its synthetic font size.
func headingSize(level int) float64 {
	switch level {
	case 1:
		return sizeH1
	case 2:
		return sizeH2
	case 3:
		return sizeH3
	case 4:
		return sizeH4
	case 5:
		return sizeH5
	default:
		return sizeH6
	}
}

// runEmitter builds synthetic TextRuns for markup formats, advancing a
// vertical cursor per emitted line.
type runEmitter struct {
	runs []layout.TextRun
	y    float64
	page int
}

func (e *runEmitter) emit(text string, size float64, bold bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	e.runs = append(e.runs, layout.TextRun{
		Text:     text,
		FontSize: size,
		FontName: "synthetic",
		Bold:     bold,
		X0:       0,
		Y0:       e.y,
		X1:       float64(len(text)) * size * 0.5,
		Y1:       e.y + size,
		Page:     e.page,
	})
	e.y += syntheticLineHeight
}

// emitBlock splits multi-line body text into one run per line so every line
// gets its own baseline.
func (e *runEmitter) emitBlock(text string, size float64) {
	for _, line := range strings.Split(text, "\n") {
		e.emit(line, size, false)
	}
}
