package source

import (
	"strings"
	"testing"
)

func TestMarkdownExtractor_HeadingsAndParagraphs(t *testing.T) {
	input := "# 1. Paṭhamavaggo\n\nEvaṃ me sutaṃ ekaṃ samayaṃ\nbhagavā viharati.\n"
	pages, err := (&MarkdownExtractor{}).Pages(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	want := []string{
		"1. Paṭhamavaggo",
		"",
		"Evaṃ me sutaṃ ekaṃ samayaṃ bhagavā viharati.",
	}
	if len(pages[0]) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(pages[0]), pages[0], len(want))
	}
	for i := range want {
		if pages[0][i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, pages[0][i], want[i])
		}
	}
}

func TestMarkdownExtractor_ThematicBreakSplitsPages(t *testing.T) {
	input := "First page paragraph.\n\n---\n\nSecond page paragraph.\n"
	pages, err := (&MarkdownExtractor{}).Pages(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[0][0] != "First page paragraph." {
		t.Errorf("page 1 = %q", pages[0])
	}
	if pages[1][0] != "Second page paragraph." {
		t.Errorf("page 2 = %q", pages[1])
	}
}

func TestMarkdownExtractor_EmptyInput(t *testing.T) {
	pages, err := (&MarkdownExtractor{}).Pages(strings.NewReader(""), 0)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1 empty page", len(pages))
	}
	if len(pages[0]) != 0 {
		t.Errorf("empty input produced lines: %q", pages[0])
	}
}

func TestMarkdownExtractor_ParagraphLinesJoined(t *testing.T) {
	// Soft line wraps inside one paragraph are not structural.
	input := "Idha bhikkhave bhikkhu dhammaṃ\npariyāpuṇāti suttaṃ geyyaṃ.\n"
	pages, err := (&MarkdownExtractor{}).Pages(strings.NewReader(input), 0)
	if err != nil {
		t.Fatalf("Pages: %v", err)
	}
	if len(pages[0]) != 1 {
		t.Fatalf("got %d lines %q, want 1 joined block", len(pages[0]), pages[0])
	}
	if !strings.Contains(pages[0][0], "dhammaṃ pariyāpuṇāti") {
		t.Errorf("wrapped lines not joined: %q", pages[0][0])
	}
}
