package parser

import (
	"bytes"
	"io"

	"github.com/docsight/docsight/internal/layout"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Heading levels are
// rendered as synthetic font sizes so the adaptive classifier sees the same
// signal shape as measured documents.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	e := &runEmitter{}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			e.emit(string(node.Text(src)), headingSize(node.Level), true)
		default:
			e.emitBlock(extractText(n, src), sizeBody)
		}
	}

	return layout.Normalize(filename, e.runs), nil
}

// extractText gets the text content of a goldmark AST node. Block nodes with
// source lines (paragraphs, code blocks) read those directly; container nodes
// recurse into their children.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return buf.String()
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(extractText(c, src))
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
