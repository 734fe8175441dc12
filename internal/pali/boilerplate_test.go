package pali

import (
	"fmt"
	"testing"
)

// repeatedPages builds n pages with the given header line above a distinct
// body line, mimicking a running header.
func repeatedPages(n int, header string) [][]string {
	pages := make([][]string, n)
	for i := range pages {
		pages[i] = []string{
			header,
			"Idha bhikkhave bhikkhu dhammaṃ pariyāpuṇāti suttaṃ geyyaṃ veyyākaraṇaṃ.",
		}
	}
	return pages
}

func TestDetectBoilerplate_RunningHeader(t *testing.T) {
	pages := repeatedPages(10, "Vipassana Research Institute")
	keys := detectBoilerplate(pages)
	if !keys[boilerplateKey("Vipassana Research Institute")] {
		t.Fatalf("header repeated on all 10 pages not detected, keys = %v", keys)
	}
}

func TestDetectBoilerplate_PageStampsShareKey(t *testing.T) {
	// Digit runs collapse, so every "Page N of M" stamp counts as one line.
	pages := make([][]string, 8)
	for i := range pages {
		pages[i] = []string{
			"Namo tassa bhagavato arahato sammāsambuddhassa.",
			fmt.Sprintf("Page %d of 128", i+1),
		}
	}
	keys := detectBoilerplate(pages)
	if !keys[boilerplateKey("Page 3 of 128")] {
		t.Fatalf("page stamps not detected, keys = %v", keys)
	}
}

func TestDetectBoilerplate_BelowThreshold(t *testing.T) {
	// 4 repetitions is under the floor of 5 pages.
	pages := repeatedPages(4, "Vipassana Research Institute")
	pages = append(pages, []string{"Aparā ca gāthā vuccati therehi."})
	keys := detectBoilerplate(pages)
	if len(keys) != 0 {
		t.Fatalf("expected no boilerplate under threshold, got %v", keys)
	}
}

func TestDetectBoilerplate_RatioThresholdOnLargeDocs(t *testing.T) {
	// 50 pages: threshold is 0.2 × 50 = 10, so 8 repetitions are kept.
	pages := repeatedPages(8, "www.tipitaka.org")
	for len(pages) < 50 {
		pages = append(pages, []string{"Tena kho pana samayena bhagavā viharati."})
	}
	keys := detectBoilerplate(pages)
	if len(keys) != 0 {
		t.Fatalf("expected no boilerplate below ratio threshold, got %v", keys)
	}

	pages = repeatedPages(12, "www.tipitaka.org")
	for len(pages) < 50 {
		pages = append(pages, []string{"Tena kho pana samayena bhagavā viharati."})
	}
	keys = detectBoilerplate(pages)
	if !keys[boilerplateKey("www.tipitaka.org")] {
		t.Fatalf("expected boilerplate above ratio threshold, got %v", keys)
	}
}

func TestDetectBoilerplate_RepeatedContentWithoutHintKept(t *testing.T) {
	// Liturgical refrains repeat across pages but carry no press/URL hint.
	pages := repeatedPages(10, "Namo tassa bhagavato arahato sammāsambuddhassa")
	keys := detectBoilerplate(pages)
	if len(keys) != 0 {
		t.Fatalf("repeated content without a hint must be kept, got %v", keys)
	}
}

func TestDetectBoilerplate_MidPageLinesIgnored(t *testing.T) {
	pages := make([][]string, 10)
	for i := range pages {
		lines := make([]string, 0, 15)
		for j := 0; j < 7; j++ {
			lines = append(lines, "Idha bhikkhave bhikkhu sīlavā hoti pātimokkhasaṃvarasaṃvuto viharati.")
		}
		lines = append(lines, "Vipassana Research Institute")
		for j := 0; j < 7; j++ {
			lines = append(lines, "Ācāragocarasampanno aṇumattesu vajjesu bhayadassāvī samādāya sikkhati.")
		}
		pages[i] = lines
	}
	keys := detectBoilerplate(pages)
	if keys[boilerplateKey("Vipassana Research Institute")] {
		t.Fatal("line buried mid-page must not count as boilerplate")
	}
}
