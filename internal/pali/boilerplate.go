package pali

import (
	"regexp"
	"strings"
)

// Running headers and footers (press names, URLs, "Page N of M" stamps) vary
// per edition, so a fixed regex list alone misses document-specific ones.
// detectBoilerplate infers them statistically: a line that repeats near the
// top or bottom of a large fraction of pages is boilerplate.

const (
	boilerplateEdgeLines = 6
	boilerplateMinKeyLen = 6
	boilerplateMaxKeyLen = 160
	boilerplateMinPages  = 5
	boilerplatePageRatio = 0.2
)

var digitRun = regexp.MustCompile(`\d+`)

// boilerplateHints are substrings (in keyword-normalized form) that mark a
// candidate as plausible press/URL/page boilerplate. Candidates without any
// hint are assumed to be repeated content and kept.
var boilerplateHints = []string{
	"vipassana",
	"research institute",
	"vri",
	"tipitaka",
	"pariyatti",
	"dhammagiri",
	"igatpuri",
	"www",
	"http",
	"org",
	"com",
	"page of",
	"chattha sangayana",
	"roman script",
}

// boilerplateKey collapses digit runs to "#" and keyword-normalizes, so
// "Page 3 of 128" and "Page 71 of 128" share one key.
func boilerplateKey(line string) string {
	return NormalizeForKeywords(digitRun.ReplaceAllString(line, "#"))
}

// detectBoilerplate scans the first and last few non-empty lines of every
// page and returns the set of keys repeating on at least
// max(boilerplateMinPages, boilerplatePageRatio × pageCount) pages.
func detectBoilerplate(pages [][]string) map[string]bool {
	counts := make(map[string]int)

	for _, lines := range pages {
		var nonEmpty []string
		for _, raw := range lines {
			if l := NormalizeSpaces(raw); l != "" {
				nonEmpty = append(nonEmpty, l)
			}
		}

		for i, line := range nonEmpty {
			if i >= boilerplateEdgeLines && i < len(nonEmpty)-boilerplateEdgeLines {
				continue
			}
			key := boilerplateKey(line)
			if len(key) < boilerplateMinKeyLen || len(key) > boilerplateMaxKeyLen {
				continue
			}
			if !hasBoilerplateHint(key) {
				continue
			}
			counts[key]++
		}
	}

	threshold := float64(boilerplateMinPages)
	if r := boilerplatePageRatio * float64(len(pages)); r > threshold {
		threshold = r
	}

	keys := make(map[string]bool)
	for key, n := range counts {
		if float64(n) >= threshold {
			keys[key] = true
		}
	}
	return keys
}

func hasBoilerplateHint(key string) bool {
	for _, hint := range boilerplateHints {
		if strings.Contains(key, hint) {
			return true
		}
	}
	return false
}
