package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DocxExtractor handles VRI-distributed .docx editions. Word files carry no
// fixed pagination, so every paragraph becomes a block on a synthetic page
// broken every docxParagraphsPerPage paragraphs; the structural parser's
// page numbers are then approximate but still monotonic.
type DocxExtractor struct{}

const docxParagraphsPerPage = 25

func (e *DocxExtractor) Pages(r io.Reader, maxPages int) ([][]string, error) {
	// go-docx needs a ReadSeeker+size, so spool to a temp file.
	tmp, err := os.CreateTemp("", "paligest-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var pages [][]string
	var current []string
	paraCount := 0

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if len(current) > 0 {
			current = append(current, "")
		}
		current = append(current, text)
		paraCount++
		if paraCount >= docxParagraphsPerPage {
			pages = append(pages, current)
			current = nil
			paraCount = 0
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

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
