package segment

// ParsedSegment is one paragraph-level unit of translatable text recovered
// from a source document. Level-1 identity (vagga) and level-2 identity
// (sutta) are assigned by the structural parser; zero values mean no section
// has been opened yet at that level.
type ParsedSegment struct {
	VaggaID      int    `json:"vagga_id"`
	VaggaName    string `json:"vagga_name"`
	SuttaID      int    `json:"sutta_id"`
	SuttaName    string `json:"sutta_name"`
	PageNumber   int    `json:"page_number"`
	ParagraphID  int    `json:"paragraph_id"`
	OriginalText string `json:"original_text"`
}

// Heading records a detected structural marker. Level is 1 or 2, SectionID is
// the level-scoped sequence number assigned by the parser (never the
// in-document display number), and Kind is the raw classification tag, e.g.
// "vaggo", "sutta", "katha", "work".
type Heading struct {
	Level      int    `json:"level"`
	SectionID  int    `json:"section_id"`
	Title      string `json:"title"`
	Kind       string `json:"kind"`
	PageNumber int    `json:"page_number"`
}

// HierarchyLabels names the two structural levels of a document, e.g.
// {"vagga", "sutta"}. Computed once per document and applied uniformly.
type HierarchyLabels struct {
	Level1 string `json:"level_1"`
	Level2 string `json:"level_2"`
}

// Records flattens segments to plain maps keyed the way the segments table
// expects them, for bulk insertion.
func Records(segments []ParsedSegment) []map[string]any {
	out := make([]map[string]any, 0, len(segments))
	for _, s := range segments {
		out = append(out, map[string]any{
			"vagga_id":      s.VaggaID,
			"vagga_name":    s.VaggaName,
			"sutta_id":      s.SuttaID,
			"sutta_name":    s.SuttaName,
			"page_number":   s.PageNumber,
			"paragraph_id":  s.ParagraphID,
			"original_text": s.OriginalText,
		})
	}
	return out
}
