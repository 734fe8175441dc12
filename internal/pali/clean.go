package pali

import "regexp"

// artifactPatterns matches known press/URL/page-stamp lines that are never
// document content, regardless of how often they repeat.
var artifactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^vipassana\s+research\s+institute`),
	regexp.MustCompile(`(?i)^dhamma\s*giri\b`),
	regexp.MustCompile(`(?i)^chat{1,2}ha\s+sangayana`),
	regexp.MustCompile(`(?i)^(https?://|www\.)\S+$`),
	regexp.MustCompile(`(?i)tipitaka\.org`),
	regexp.MustCompile(`(?i)^page\s+\d+\s+of\s+\d+$`),
	regexp.MustCompile(`(?i)^\(?\s*roman\s+script\s*\)?$`),
}

// pageNumberLine matches lines that are purely a page number, possibly with
// stray punctuation the extractor left around it.
var pageNumberLine = regexp.MustCompile(`^[\d\s.\-–—()\[\]]+$`)

// isArtifact reports whether a normalized line is extraction noise: a known
// fixed pattern, a bare page number, or a member of the statistically
// detected boilerplate set.
func isArtifact(line string, boilerplate map[string]bool) bool {
	if line == "" {
		return false
	}
	for _, re := range artifactPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	if pageNumberLine.MatchString(line) {
		return true
	}
	return boilerplate[boilerplateKey(line)]
}

// cleanPages normalizes every raw line and drops artifacts, preserving empty
// lines as paragraph separators. Both the mode-selection pre-pass and the
// main structural pass consume its output.
func cleanPages(rawPages [][]string) [][]string {
	boilerplate := detectBoilerplate(rawPages)

	cleaned := make([][]string, 0, len(rawPages))
	for _, rawLines := range rawPages {
		lines := make([]string, 0, len(rawLines))
		for _, raw := range rawLines {
			line := NormalizeSpaces(raw)
			if line != "" && isArtifact(line, boilerplate) {
				continue
			}
			lines = append(lines, line)
		}
		cleaned = append(cleaned, lines)
	}
	return cleaned
}
