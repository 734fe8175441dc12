package pali

import (
	"sort"

	"github.com/vandana/paligest/internal/segment"
)

// canonicalKinds maps raw heading kinds to display labels: case-variant
// suffixes collapse ("vaggo"/"vagga" → "vagga") and diacritics are restored.
var canonicalKinds = map[HeadingKind]string{
	HeadingKind("vagga"):      "vagga",
	HeadingKind("vaggo"):      "vagga",
	HeadingKind("nipata"):     "nipāta",
	HeadingKind("nipato"):     "nipāta",
	HeadingKind("kanda"):      "kaṇḍa",
	HeadingKind("pariccheda"): "pariccheda",
	HeadingKind("niddeso"):    "niddesa",
	HeadingKind("niddesa"):    "niddesa",
	KindSutta:                 "sutta",
	KindKatha:                 "kathā",
	KindVannana:               "vaṇṇanā",
	KindWork:                  "work",
}

// labelPriority breaks voting ties; earlier entries win.
var labelPriority = []string{
	"vagga", "nipāta", "kaṇḍa", "pariccheda", "sutta", "vaṇṇanā", "kathā", "section", "subsection",
}

const (
	defaultLevel1Label = "section"
	defaultLevel2Label = "subsection"
)

// inferLabels names the two hierarchy levels from the headings the main pass
// recorded, by majority vote over canonical kinds at each level.
func inferLabels(headings []segment.Heading) segment.HierarchyLabels {
	return segment.HierarchyLabels{
		Level1: voteLabel(headings, 1, defaultLevel1Label),
		Level2: voteLabel(headings, 2, defaultLevel2Label),
	}
}

// voteLabel picks the most frequent canonical kind among headings of the
// given level. Ties fall back to labelPriority order, then to the
// lexicographically smallest candidate. A level with no headings gets the
// default label.
func voteLabel(headings []segment.Heading, level int, fallback string) string {
	counts := make(map[string]int)
	for _, h := range headings {
		if h.Level != level {
			continue
		}
		label, ok := canonicalKinds[HeadingKind(h.Kind)]
		if !ok {
			label = h.Kind
		}
		counts[label]++
	}
	if len(counts) == 0 {
		return fallback
	}

	best := 0
	for _, n := range counts {
		if n > best {
			best = n
		}
	}
	var tied []string
	for label, n := range counts {
		if n == best {
			tied = append(tied, label)
		}
	}
	if len(tied) == 1 {
		return tied[0]
	}

	for _, p := range labelPriority {
		for _, label := range tied {
			if label == p {
				return label
			}
		}
	}
	sort.Strings(tied)
	return tied[0]
}
