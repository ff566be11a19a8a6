package assay

import "math"

// ViabilityPoint is one treatment condition on the dose-response curve.
type ViabilityPoint struct {
	Concentration float64 `json:"concentration"`
	MeanViability float64 `json:"mean_viability"`
	StdDev        float64 `json:"std_dev"`
}

// Curve is the derived viability curve, one point per treatment column, in
// the same order the treatment columns were supplied. It is never sorted:
// the estimator's reversal step assumes the caller entered concentrations
// ascending.
type Curve []ViabilityPoint

// Concentrations returns the concentration sequence in curve order.
func (c Curve) Concentrations() []float64 {
	out := make([]float64, len(c))
	for i, p := range c {
		out[i] = p.Concentration
	}
	return out
}

// MeanViabilities returns the mean-viability sequence in curve order.
func (c Curve) MeanViabilities() []float64 {
	out := make([]float64, len(c))
	for i, p := range c {
		out[i] = p.MeanViability
	}
	return out
}

// Finite reports whether every mean and standard deviation on the curve is
// a finite number.
func (c Curve) Finite() bool {
	for _, p := range c {
		if math.IsNaN(p.MeanViability) || math.IsInf(p.MeanViability, 0) {
			return false
		}
		if math.IsNaN(p.StdDev) || math.IsInf(p.StdDev, 0) {
			return false
		}
	}
	return true
}

// monotonicNonIncreasing reports whether mean viability never rises as the
// curve is walked in supplied order.
func (c Curve) monotonicNonIncreasing() bool {
	for i := 1; i < len(c); i++ {
		if c[i].MeanViability > c[i-1].MeanViability {
			return false
		}
	}
	return true
}

// Result is the full output of one pipeline invocation. Warnings carry
// numeric edge cases (non-finite viability, non-monotone curve) that do not
// stop the computation but make the estimate suspect.
type Result struct {
	Curve     Curve    `json:"curve"`
	IC50      float64  `json:"ic50"`
	Monotonic bool     `json:"monotonic"`
	NonFinite bool     `json:"non_finite"`
	Warnings  []string `json:"warnings,omitempty"`
	DrugName  string   `json:"drug_name,omitempty"`
	Unit      string   `json:"unit,omitempty"`
}
