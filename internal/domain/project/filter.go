package project

import "strings"

// FilterAll is the sentinel meaning "no constraint on this dimension".
const FilterAll = "ALL"

// Filter selects projects for listing, KPI aggregation, and export.
// Text is a case-insensitive substring match over id, VIN, part number,
// and title; the exact-match dimensions treat FilterAll (or empty) as
// unconstrained. All supplied constraints are ANDed.
type Filter struct {
	Text   string
	Status string
	Model  string
	Market string
}

// Match reports whether the project satisfies every constraint.
func (f Filter) Match(p *Project) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Text)); term != "" {
		haystack := strings.ToLower(p.ProjectID + " " + p.VIN + " " + p.PartNo + " " + p.Title)
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	if !dimensionMatch(f.Status, string(p.Status)) {
		return false
	}
	if !dimensionMatch(f.Model, p.Model) {
		return false
	}
	if !dimensionMatch(f.Market, p.Market) {
		return false
	}
	return true
}

func dimensionMatch(want, got string) bool {
	return want == "" || want == FilterAll || want == got
}
