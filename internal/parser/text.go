package parser

import (
	"bufio"
	"io"

	"github.com/docsight/docsight/internal/layout"
)

// TextParser handles plain text files. Every line is body-sized; numbered or
// all-caps headings are still recognized downstream by the pattern rules.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	e := &runEmitter{}
	for scanner.Scan() {
		e.emit(scanner.Text(), sizeBody, false)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return layout.Normalize(filename, e.runs), nil
}
