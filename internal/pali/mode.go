package pali

// parseMode selects how heading kinds map to hierarchy levels for one
// document. The choice is made once, from kind frequencies alone, before any
// segment is emitted.
type parseMode string

const (
	// modeMarker: the document carries genuine internal vagga/nipāta/kaṇḍa
	// style sectioning.
	modeMarker parseMode = "marker"
	// modeSuttaOnly: a single commentary unit with suttavaṇṇanā headings and
	// no enclosing vagga markers; a synthetic level-1 "work" bucket spans the
	// whole document.
	modeSuttaOnly parseMode = "sutta_only"
	// modeGeneric: sparse or irregular headings; best-effort fallback.
	modeGeneric parseMode = "generic"
)

type modeDecision struct {
	mode parseMode

	// markerLevel2 is the kind acting as level 2 in marker mode; KindNone
	// when no level-2 kind was detected (all content stays under level 1).
	markerLevel2 HeadingKind
}

// selectMode runs the pre-pass over all cleaned lines, counting heading-kind
// frequencies only, and picks the document's structural mode.
func selectMode(pages [][]string) modeDecision {
	counts := make(map[HeadingKind]int)
	for _, lines := range pages {
		for _, line := range lines {
			if cand, ok := matchHeading(line); ok {
				counts[cand.kind]++
			}
		}
	}

	level1Markers := 0
	for _, s := range level1Suffixes {
		level1Markers += counts[HeadingKind(s)]
	}

	if level1Markers >= 2 {
		return modeDecision{mode: modeMarker, markerLevel2: pickMarkerLevel2(counts)}
	}
	if counts[KindSutta] >= 2 {
		return modeDecision{mode: modeSuttaOnly, markerLevel2: KindSutta}
	}
	return modeDecision{mode: modeGeneric}
}

// pickMarkerLevel2 chooses the level-2 kind for marker mode by priority:
// suttavaṇṇanā headings win over generic vaṇṇanā, which win over kathā.
func pickMarkerLevel2(counts map[HeadingKind]int) HeadingKind {
	switch {
	case counts[KindSutta] > 0:
		return KindSutta
	case counts[KindVannana] > 0:
		return KindVannana
	case counts[KindKatha] > 0:
		return KindKatha
	}
	return KindNone
}
