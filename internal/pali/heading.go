package pali

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// HeadingKind tags a heading candidate with its raw structural class. Level-1
// kinds carry the matched suffix verbatim ("vaggo" vs "vagga") so that label
// inference can vote over canonical forms later.
type HeadingKind string

const (
	KindNone    HeadingKind = ""
	KindSutta   HeadingKind = "sutta"
	KindVannana HeadingKind = "vannana"
	KindKatha   HeadingKind = "katha"
	KindWork    HeadingKind = "work"
)

// level1Suffixes are the section-marker suffixes that open a level-1
// division. Order matters only for deterministic matching; the suffixes are
// mutually exclusive as word endings.
var level1Suffixes = []string{
	"vagga", "vaggo", "nipata", "nipato", "kanda", "pariccheda", "niddeso", "niddesa",
}

// level2Suffixes mark level-2 subsections. "suttavannana" must be checked
// before the generic "vannana" suffix.
var level2Suffixes = []string{"suttavannana"}

var (
	leadingNumber = regexp.MustCompile(`^(\d+)\s*[.)]\s*`)

	// Matched against the diacritic-stripped, lowercased line. These are the
	// exact "N. Namevaggo" / "N. Namesuttavaṇṇanā" shapes, which outrank
	// plain suffix matching.
	numberedVagga = regexp.MustCompile(`^\d+\s*[.)]\s*[a-z' \-]+vagg([oa])$`)
	numberedSutta = regexp.MustCompile(`^\d+\s*[.)]\s*[a-z' \-]+suttavannana$`)
)

const (
	maxHeadingLen         = 140
	maxHeadingWords       = 4
	maxUnnumberedWordsLen = 60
	maxNumberedWordsLen   = 80
	minAlphaRatio         = 0.5
)

// headingCandidate is the parsed form of a line accepted as a structural
// heading. Number is the in-document display number (0 when absent); it is
// kept only for the title string, never used as a section id.
type headingCandidate struct {
	number    int
	hasNumber bool
	title     string
	normTitle string
	kind      HeadingKind
}

// matchHeading decides whether a cleaned line is a structural heading and
// classifies it. Rejection rules run first and short-circuit; classification
// then proceeds in a fixed priority order. A line matching no rule is body
// text, not an error.
func matchHeading(line string) (headingCandidate, bool) {
	var cand headingCandidate

	if line == "" {
		return cand, false
	}
	runes := []rune(line)
	if len(runes) > maxHeadingLen {
		return cand, false
	}
	switch runes[len(runes)-1] {
	case '.', ':', ';':
		// Headings do not end with sentence punctuation.
		return cand, false
	}

	title := line
	if m := leadingNumber.FindStringSubmatch(line); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			cand.number = n
			cand.hasNumber = true
		}
		title = strings.TrimSpace(line[len(m[0]):])
	}

	normTitle := NormalizeForKeywords(title)
	if normTitle == "" {
		return cand, false
	}
	if strings.Contains(normTitle, "atthakatha") {
		// Full commentary titles ("...aṭṭhakathā") are book titles, not
		// section headings.
		return cand, false
	}
	if alphaRatio(line) < minAlphaRatio {
		return cand, false
	}
	if words := len(strings.Fields(line)); words > maxHeadingWords {
		if !cand.hasNumber && len(runes) > maxUnnumberedWordsLen {
			return cand, false
		}
		if len(runes) > maxNumberedWordsLen {
			return cand, false
		}
	}

	cand.title = line
	cand.normTitle = normTitle

	flatLine := strings.ToLower(StripDiacritics(line))
	lastWord := lastKeyword(normTitle)

	switch {
	case numberedVagga.MatchString(flatLine):
		if strings.HasSuffix(flatLine, "o") {
			cand.kind = HeadingKind("vaggo")
		} else {
			cand.kind = HeadingKind("vagga")
		}
	case numberedSutta.MatchString(flatLine):
		cand.kind = KindSutta
	case level1Suffix(lastWord) != "":
		cand.kind = HeadingKind(level1Suffix(lastWord))
	case hasSuffixOf(lastWord, level2Suffixes):
		cand.kind = KindSutta
	case strings.HasSuffix(lastWord, "vannana"):
		cand.kind = KindVannana
	case strings.HasSuffix(lastWord, "katha"):
		cand.kind = KindKatha
	default:
		return cand, false
	}

	return cand, true
}

func level1Suffix(word string) string {
	for _, s := range level1Suffixes {
		if strings.HasSuffix(word, s) {
			return s
		}
	}
	return ""
}

func hasSuffixOf(word string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(word, s) {
			return true
		}
	}
	return false
}

func isLevel1Kind(kind HeadingKind) bool {
	for _, s := range level1Suffixes {
		if kind == HeadingKind(s) {
			return true
		}
	}
	return false
}

func alphaRatio(line string) float64 {
	var letters, total int
	for _, r := range line {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}
