package source

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor reads PDFs via the Go library, optionally falling back to
// pdftotext when the library cannot extract text.
type PDFExtractor struct {
	FallbackPdftotext bool
}

func (e *PDFExtractor) Pages(r io.Reader, maxPages int) ([][]string, error) {
	// The pdf library requires a ReadSeeker+size, so spool to a temp file.
	tmp, err := os.CreateTemp("", "paligest-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	return PDFPages(tmpPath, maxPages, e.FallbackPdftotext)
}

// PDFPages extracts per-page line lists from the PDF at path. Pages that the
// library cannot render yield empty line lists so page numbering stays
// aligned with the source document.
func PDFPages(path string, maxPages int, fallbackPdftotext bool) ([][]string, error) {
	pages, err := extractPDFPages(path, maxPages)
	if err != nil && fallbackPdftotext {
		pages, err = extractPdftotextPages(path, maxPages)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return pages, nil
}

func extractPDFPages(path string, maxPages int) ([][]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	if maxPages > 0 && numPages > maxPages {
		numPages = maxPages
	}

	pages := make([][]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, splitLines(text))
	}
	return pages, nil
}

func extractPdftotextPages(path string, maxPages int) ([][]string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}

	var pages [][]string
	for _, pageText := range strings.Split(string(out), "\f") {
		pages = append(pages, splitLines(pageText))
	}
	return capPages(pages, maxPages), nil
}
