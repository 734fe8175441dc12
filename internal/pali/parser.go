package pali

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vandana/paligest/internal/segment"
	"github.com/vandana/paligest/internal/source"
)

// DefaultMaxChunkSize is the paragraph-size ceiling above which a flushed
// buffer is split at sentence boundaries.
const DefaultMaxChunkSize = 2000

// minSegmentLen guards against stray running numbers or single words that
// slip past the artifact filter: flushed text this short is discarded.
const minSegmentLen = 10

// PDFParser recovers a two-level document hierarchy (work → vagga-level
// sections → sutta-level subsections → paragraphs) from OCR/PDF text streams
// that carry no reliable structural markup. Each instance is single-use
// state for one document; concurrent parses need separate instances.
type PDFParser struct {
	pdfPath   string
	workTitle string

	// FallbackPdftotext enables shelling out to pdftotext when the Go PDF
	// library cannot extract text.
	FallbackPdftotext bool

	// Headings and HierarchyLabels are populated by Parse and read by
	// ExtractHierarchy and the persistence layer.
	Headings        []segment.Heading
	HierarchyLabels segment.HierarchyLabels
}

// NewPDFParser creates a parser for the PDF at pdfPath. The path may be empty
// when pre-extracted lines are supplied via ParseOptions.PagesLines.
func NewPDFParser(pdfPath string) *PDFParser {
	title := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	if title == "." || title == "/" {
		title = ""
	}
	return &PDFParser{pdfPath: pdfPath, workTitle: title}
}

// SetWorkTitle overrides the title used for the synthetic level-1 section in
// sutta_only mode (defaults to the PDF base name).
func (p *PDFParser) SetWorkTitle(title string) { p.workTitle = title }

// ParseOptions controls a single Parse run.
type ParseOptions struct {
	// MaxPages caps how many pages are processed; 0 means all.
	MaxPages int
	// MaxChunkSize is the paragraph split threshold in characters; 0 means
	// DefaultMaxChunkSize.
	MaxChunkSize int
	// PagesLines supplies pre-extracted per-page lines, bypassing the PDF
	// backend entirely. Used by non-PDF sources and by tests.
	PagesLines [][]string
}

// Parse runs the full pipeline: page extraction, boilerplate detection and
// line cleaning, the mode-selection pre-pass, and the single forward
// structural pass. It returns the ordered paragraph segments and populates
// p.Headings and p.HierarchyLabels.
func (p *PDFParser) Parse(opts ParseOptions) ([]segment.ParsedSegment, error) {
	maxChunk := opts.MaxChunkSize
	if maxChunk <= 0 {
		maxChunk = DefaultMaxChunkSize
	}

	raw := opts.PagesLines
	if raw == nil {
		var err error
		raw, err = source.PDFPages(p.pdfPath, opts.MaxPages, p.FallbackPdftotext)
		if err != nil {
			return nil, fmt.Errorf("extract pdf pages: %w", err)
		}
	}
	if opts.MaxPages > 0 && len(raw) > opts.MaxPages {
		raw = raw[:opts.MaxPages]
	}

	pages := cleanPages(raw)
	decision := selectMode(pages)

	b := newBuilder(decision, maxChunk, p.workTitle)
	for i, lines := range pages {
		b.page = i + 1
		for _, line := range lines {
			b.feed(line)
		}
	}
	b.flush()

	p.Headings = b.headings
	if p.Headings == nil {
		p.Headings = []segment.Heading{}
	}
	if decision.mode == modeSuttaOnly {
		p.HierarchyLabels = segment.HierarchyLabels{Level1: "work", Level2: "sutta"}
	} else {
		p.HierarchyLabels = inferLabels(b.headings)
	}
	return b.segments, nil
}

// builder holds the state of the single forward structural pass.
type builder struct {
	mode     modeDecision
	maxChunk int

	page int // 1-based page currently being fed

	vaggaID   int
	vaggaName string
	suttaID   int
	suttaName string

	vaggaSeq int
	suttaSeq int
	paraSeq  int

	buf     []string
	bufPage int

	segments []segment.ParsedSegment
	headings []segment.Heading
}

func newBuilder(decision modeDecision, maxChunk int, workTitle string) *builder {
	b := &builder{mode: decision, maxChunk: maxChunk, page: 1}
	if decision.mode == modeSuttaOnly {
		// The whole document is one commentary unit: open a synthetic
		// level-1 bucket spanning the entire PDF.
		title := workTitle
		if title == "" {
			title = "work"
		}
		b.vaggaSeq = 1
		b.vaggaID = 1
		b.vaggaName = title
		b.headings = append(b.headings, segment.Heading{
			Level:      1,
			SectionID:  1,
			Title:      title,
			Kind:       string(KindWork),
			PageNumber: 1,
		})
	}
	return b
}

func (b *builder) feed(line string) {
	if line == "" {
		b.flush()
		return
	}
	if cand, ok := matchHeading(line); ok {
		b.flush()
		b.applyHeading(cand)
		return
	}
	b.appendLine(line)
}

func (b *builder) level1Open() bool { return b.vaggaID > 0 }

// decideLevel maps a heading candidate to a hierarchy level under the
// selected mode. 0 means the line is a non-structural boundary and is
// discarded (the paragraph buffer was already flushed).
func (b *builder) decideLevel(cand headingCandidate) int {
	switch b.mode.mode {
	case modeMarker:
		if isLevel1Kind(cand.kind) {
			return 1
		}
		// Unnumbered concluding "nigamana" sections close the work; promote
		// them to level 1 to keep closing material navigable.
		if cand.kind == KindKatha && !cand.hasNumber && strings.Contains(cand.normTitle, "nigamana") {
			return 1
		}
		// Kathā/vaṇṇanā headings before the first real marker are front
		// matter; capture them as level-1 preface sections.
		if !b.level1Open() && (cand.kind == KindKatha || cand.kind == KindVannana) {
			return 1
		}
		if cand.kind == b.mode.markerLevel2 {
			// Some source PDFs insert an unnumbered "...niddesavaṇṇanā"
			// caption before the true numbered subsections; it is a label
			// line, not a subsection.
			if b.mode.markerLevel2 == KindVannana && !cand.hasNumber &&
				strings.HasSuffix(lastKeyword(cand.normTitle), "niddesavannana") {
				return 0
			}
			return 2
		}
		// Suttas titled "...-vaṇṇanā" rather than "...suttavaṇṇanā" are
		// still subsections once sectioning has started.
		if cand.kind == KindVannana && b.mode.markerLevel2 == KindSutta &&
			b.level1Open() && strings.Contains(cand.normTitle, "sutta") {
			return 2
		}
		return 0

	case modeSuttaOnly:
		if cand.kind == KindSutta {
			return 2
		}
		// The synthetic level-1 id is fixed at creation, so closing material
		// becomes a subsection here rather than a new section.
		if cand.kind == KindKatha && !cand.hasNumber && strings.Contains(cand.normTitle, "nigamana") {
			return 2
		}
		if cand.kind == KindVannana && strings.Contains(cand.normTitle, "sutta") {
			return 2
		}
		return 0

	default: // modeGeneric
		if cand.kind == KindKatha && !cand.hasNumber && strings.Contains(cand.normTitle, "nigamana") {
			return 1
		}
		if isLevel1Kind(cand.kind) || cand.kind == KindSutta {
			return 1
		}
		if cand.kind == KindKatha || cand.kind == KindVannana {
			if b.level1Open() {
				return 2
			}
			return 1
		}
		return 0
	}
}

func (b *builder) applyHeading(cand headingCandidate) {
	switch b.decideLevel(cand) {
	case 1:
		// Repeated volume-boundary markers (e.g. "(Dutiyo bhāgo)" reprinting
		// the open section title) must not start a spurious new section.
		if b.level1Open() && NormalizeForKeywords(cand.title) == NormalizeForKeywords(b.vaggaName) {
			return
		}
		if b.mode.mode != modeSuttaOnly {
			b.vaggaSeq++
		}
		b.vaggaID = b.vaggaSeq
		b.vaggaName = cand.title
		b.suttaID = 0
		b.suttaName = ""
		b.suttaSeq = 0
		b.paraSeq = 0
		b.headings = append(b.headings, segment.Heading{
			Level:      1,
			SectionID:  b.vaggaID,
			Title:      cand.title,
			Kind:       string(cand.kind),
			PageNumber: b.page,
		})
	case 2:
		b.suttaSeq++
		b.suttaID = b.suttaSeq
		b.suttaName = cand.title
		b.paraSeq = 0
		b.headings = append(b.headings, segment.Heading{
			Level:      2,
			SectionID:  b.suttaID,
			Title:      cand.title,
			Kind:       string(cand.kind),
			PageNumber: b.page,
		})
	}
}

// appendLine merges a body line into the buffer, splicing hyphenated word
// wraps ("dhamma-" + "cariyā" → "dhammacariyā").
func (b *builder) appendLine(line string) {
	if len(b.buf) == 0 {
		b.bufPage = b.page
		b.buf = append(b.buf, line)
		return
	}
	last := b.buf[len(b.buf)-1]
	if strings.HasSuffix(last, "-") && startsLower(line) {
		b.buf[len(b.buf)-1] = strings.TrimSuffix(last, "-") + line
		return
	}
	b.buf = append(b.buf, line)
}

// flush joins the buffered lines into one paragraph and emits it as one or
// more segments under the currently open (vagga, sutta) pair. Text at or
// below minSegmentLen characters is discarded.
func (b *builder) flush() {
	if len(b.buf) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(b.buf, " "))
	b.buf = b.buf[:0]
	if utf8.RuneCountInString(text) <= minSegmentLen {
		return
	}
	for _, chunk := range SplitLongText(text, b.maxChunk) {
		b.segments = append(b.segments, segment.ParsedSegment{
			VaggaID:      b.vaggaID,
			VaggaName:    b.vaggaName,
			SuttaID:      b.suttaID,
			SuttaName:    b.suttaName,
			PageNumber:   b.bufPage,
			ParagraphID:  b.paraSeq,
			OriginalText: chunk,
		})
		b.paraSeq++
	}
}

func startsLower(line string) bool {
	r, _ := utf8.DecodeRuneInString(line)
	return unicode.IsLower(r)
}

func lastKeyword(normTitle string) string {
	if i := strings.LastIndex(normTitle, " "); i >= 0 {
		return normTitle[i+1:]
	}
	return normTitle
}
