package project

import "math"

// Kpis summarizes a filtered project set for the dashboard.
type Kpis struct {
	Total             int `json:"total"`
	Open              int `json:"open"`
	Containment       int `json:"containment"`
	Corrective        int `json:"corrective"`
	AvgBinCoveragePct int `json:"avg_bin_coverage_pct"`
}

// Aggregate reduces a project set into summary counters. An empty input
// yields all zeroes; the coverage mean never divides by zero.
func Aggregate(projects []*Project) Kpis {
	k := Kpis{Total: len(projects)}

	var coverageSum float64
	for _, p := range projects {
		if p.Status.IsOpen() {
			k.Open++
		}
		switch p.Status {
		case StatusContainment:
			k.Containment++
		case StatusCorrective:
			k.Corrective++
		}
		coverageSum += p.BinCoverageRatio
	}

	if k.Total > 0 {
		k.AvgBinCoveragePct = int(math.Round(coverageSum / float64(k.Total) * 100))
	}
	return k
}
