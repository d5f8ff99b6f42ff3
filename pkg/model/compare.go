package model

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Comparison pairs the phase abundances of one description in a chart.
type Comparison struct {
	Description string  `json:"description"`
	PhaseI      float64 `json:"abundance_phase_I"`
	PhaseII     float64 `json:"abundance_phase_II"`
	Log2Ratio   float64 `json:"log2_ratio"`
}

// Compare restricts the summary to domain and descriptions and computes
// log2(II/I) per description, sorted by ratio descending.
//
// Phase I drives the join: a description aggregated only in phase II is not
// reported. Descriptions without a finite ratio (no phase II match, or a
// non-positive sum) are returned in dropped instead of rows.
func Compare(summary *Summary, domain Domain, descriptions []string) (rows []Comparison, dropped []string) {
	want := make(map[string]bool, len(descriptions))
	for _, d := range descriptions {
		want[d] = true
	}

	phaseII := make(map[string]float64)
	for _, r := range summary.Select(domain, PhaseII) {
		if want[r.Description] {
			phaseII[r.Description] = r.Abundance
		}
	}

	for _, r := range summary.Select(domain, PhaseI) {
		if !want[r.Description] {
			continue
		}
		ii, ok := phaseII[r.Description]
		if !ok {
			dropped = append(dropped, r.Description)
			continue
		}
		ratio := Log2Ratio(r.Abundance, ii)
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			dropped = append(dropped, r.Description)
			continue
		}
		rows = append(rows, Comparison{
			Description: r.Description,
			PhaseI:      r.Abundance,
			PhaseII:     ii,
			Log2Ratio:   ratio,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Log2Ratio > rows[j].Log2Ratio
	})
	return rows, dropped
}

func Log2Ratio(phaseI, phaseII float64) float64 {
	return math.Log2(phaseII / phaseI)
}

// Normalize maps every ratio onto [0, 1] using the min and max of this set
// of rows. A set with a single distinct ratio maps to 0.
func Normalize(rows []Comparison) []float64 {
	if len(rows) == 0 {
		return nil
	}
	ratios := make([]float64, len(rows))
	for i, r := range rows {
		ratios[i] = r.Log2Ratio
	}

	lo, hi := floats.Min(ratios), floats.Max(ratios)
	out := make([]float64, len(ratios))
	if hi == lo {
		return out
	}
	for i, v := range ratios {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}
