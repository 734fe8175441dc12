package pali

import "github.com/vandana/paligest/internal/segment"

// Outline is the navigable document structure exposed to the admin preview
// UI: hierarchy labels plus the nested section/subsection tree with start
// pages.
type Outline struct {
	HierarchyLabels segment.HierarchyLabels `json:"hierarchy_labels"`
	Vaggas          []OutlineVagga          `json:"vaggas"`
	HeadingsCount   int                     `json:"headings_count"`
}

type OutlineVagga struct {
	VaggaID   int            `json:"vagga_id"`
	VaggaName string         `json:"vagga_name"`
	StartPage int            `json:"start_page"`
	Suttas    []OutlineSutta `json:"suttas"`
}

type OutlineSutta struct {
	SuttaID   int    `json:"sutta_id"`
	SuttaName string `json:"sutta_name"`
	StartPage int    `json:"start_page"`
}

// ExtractHierarchy re-runs Parse, discarding segments, and folds the recorded
// headings into a nested outline. Level-2 headings encountered before any
// level-1 heading are dropped from the outline (they have no parent to hang
// from).
func (p *PDFParser) ExtractHierarchy(opts ParseOptions) (*Outline, error) {
	if _, err := p.Parse(opts); err != nil {
		return nil, err
	}

	out := &Outline{
		HierarchyLabels: p.HierarchyLabels,
		Vaggas:          []OutlineVagga{},
		HeadingsCount:   len(p.Headings),
	}
	for _, h := range p.Headings {
		switch h.Level {
		case 1:
			out.Vaggas = append(out.Vaggas, OutlineVagga{
				VaggaID:   h.SectionID,
				VaggaName: h.Title,
				StartPage: h.PageNumber,
				Suttas:    []OutlineSutta{},
			})
		case 2:
			if len(out.Vaggas) == 0 {
				continue
			}
			v := &out.Vaggas[len(out.Vaggas)-1]
			v.Suttas = append(v.Suttas, OutlineSutta{
				SuttaID:   h.SectionID,
				SuttaName: h.Title,
				StartPage: h.PageNumber,
			})
		}
	}
	return out, nil
}
