package source

import (
	"bufio"
	"io"
	"strings"
)

// TextExtractor handles plain text dumps. Form feeds separate pages, matching
// pdftotext output; a file without form feeds is a single page.
type TextExtractor struct{}

func (e *TextExtractor) Pages(r io.Reader, maxPages int) ([][]string, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}

	var pages [][]string
	for _, pageText := range strings.Split(string(data), "\f") {
		pages = append(pages, splitLines(pageText))
	}
	return capPages(pages, maxPages), nil
}
