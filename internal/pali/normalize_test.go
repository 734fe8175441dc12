package pali

import "testing"

func TestNormalizeSpaces_CollapsesWhitespaceRuns(t *testing.T) {
	got := NormalizeSpaces("  Evaṃ   me\tsutaṃ \n ekaṃ  ")
	want := "Evaṃ me sutaṃ ekaṃ"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizeSpaces_ReplacesNonBreakingSpaces(t *testing.T) {
	got := NormalizeSpaces("Evaṃ me sutaṃ")
	want := "Evaṃ me sutaṃ"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestNormalizeSpaces_Empty(t *testing.T) {
	if got := NormalizeSpaces("   \t  "); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestStripDiacritics_PaliLetters(t *testing.T) {
	cases := map[string]string{
		"vaṇṇanā":          "vannana",
		"Sīlakkhandavaggo": "Silakkhandavaggo",
		"kaṇḍa":            "kanda",
		"nipāta":           "nipata",
		"plain ascii":      "plain ascii",
	}
	for in, want := range cases {
		if got := StripDiacritics(in); got != want {
			t.Errorf("StripDiacritics(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestNormalizeForKeywords_CanonicalASCIIKey(t *testing.T) {
	cases := map[string]string{
		"1. Mūlapariyāyasuttavaṇṇanā": "1 mulapariyayasuttavannana",
		"(Dutiyo bhāgo)":              "dutiyo bhago",
		"Vipassana Research Institute - www.vridhamma.org": "vipassana research institute www vridhamma org",
		"":      "",
		"  -  ": "",
	}
	for in, want := range cases {
		if got := NormalizeForKeywords(in); got != want {
			t.Errorf("NormalizeForKeywords(%q): expected %q, got %q", in, want, got)
		}
	}
}
