package pali

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// sentenceBoundary matches sentence-final punctuation (with optional closing
// quotes/brackets) followed by whitespace and an uppercase letter, including
// diacritic uppercase (Ā, Ī, ...). The uppercase letter is captured so the
// next sentence can start exactly there.
var sentenceBoundary = regexp.MustCompile(`([.!?]['")\]]*)\s+(\p{Lu})`)

// SplitLongText splits text into chunks of at most maxSize characters without
// breaking mid-sentence. Sentences are packed greedily; a single sentence
// longer than maxSize is emitted as its own oversized chunk rather than
// corrupting word boundaries.
func SplitLongText(text string, maxSize int) []string {
	if maxSize <= 0 || utf8.RuneCountInString(text) <= maxSize {
		return []string{text}
	}

	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return []string{text}
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0

	for _, s := range sentences {
		n := utf8.RuneCountInString(s)
		if curLen > 0 && curLen+1+n > maxSize {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(s)
		curLen += n
	}
	if curLen > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// splitSentences cuts text at sentence boundaries. Every returned sentence is
// non-empty and trimmed.
func splitSentences(text string) []string {
	matches := sentenceBoundary.FindAllStringSubmatchIndex(text, -1)

	var out []string
	start := 0
	for _, m := range matches {
		end := m[3]  // end of the punctuation group
		next := m[4] // start of the uppercase letter
		if s := strings.TrimSpace(text[start:end]); s != "" {
			out = append(out, s)
		}
		start = next
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
