package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/docsight/docsight/internal/layout"
)

// CSVParser handles CSV files. The header row is emitted as a bold line and
// each data row as a body line of "header: value" pairs.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	e := &runEmitter{}
	if len(records) == 0 {
		return layout.Normalize(filename, e.runs), nil
	}

	headers := records[0]
	e.emit(strings.Join(headers, ", "), sizeH4, true)

	for _, row := range records[1:] {
		var line strings.Builder
		for j, cell := range row {
			if j > 0 {
				line.WriteString(", ")
			}
			if j < len(headers) {
				line.WriteString(headers[j] + ": " + cell)
			} else {
				line.WriteString(cell)
			}
		}
		e.emit(line.String(), sizeBody, false)
	}

	return layout.Normalize(filename, e.runs), nil
}
