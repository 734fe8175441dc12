package pali

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonAlnumRun   = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeSpaces canonicalizes whitespace: non-breaking spaces become
// ordinary spaces, the text is NFKC-composed, runs of whitespace collapse to
// a single space, and leading/trailing whitespace is stripped.
func NormalizeSpaces(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = norm.NFKC.String(text)
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// StripDiacritics NFKD-decomposes the text and drops all combining marks, so
// "vaṇṇanā" becomes "vannana". Used only for keyword matching; text stored in
// segments keeps its diacritics.
func StripDiacritics(text string) string {
	decomposed := norm.NFKD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeForKeywords produces a canonical ASCII key for pattern matching
// independent of Pali diacritics and punctuation: diacritics stripped,
// lowercased, every run of non-[a-z0-9] replaced by a single space, trimmed.
func NormalizeForKeywords(text string) string {
	t := strings.ToLower(StripDiacritics(text))
	t = nonAlnumRun.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
