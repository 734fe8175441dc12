package source

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown transcriptions. Headings and paragraphs
// each become one block line, and thematic breaks (---) split pages, mirroring
// how transcribers mark page boundaries.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Pages(r io.Reader, maxPages int) ([][]string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var pages [][]string
	var current []string

	addBlock := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if len(current) > 0 {
			current = append(current, "")
		}
		current = append(current, s)
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.ThematicBreak:
			if len(current) > 0 {
				pages = append(pages, current)
				current = nil
			}
		case *ast.Heading:
			addBlock(string(node.Text(src)))
		default:
			addBlock(blockText(n, src))
		}
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	if len(pages) == 0 {
		pages = [][]string{{}}
	}
	return capPages(pages, maxPages), nil
}

// blockText gets the raw text content of a goldmark block node, joining its
// source lines with spaces (line wrapping inside a paragraph is not
// structural).
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			line := lines.At(i)
			buf.Write(bytes.TrimSpace(line.Value(src)))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(t)
		}
	}
	return strings.TrimSpace(buf.String())
}
