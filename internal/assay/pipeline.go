package assay

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Params collects every input the pipeline needs for one invocation. There
// is no ambient state: the caller owns the grid and the selection, and each
// Run is an independent, idempotent computation.
type Params struct {
	NegativeControl    int       `json:"negative_control"`
	UntreatedReference int       `json:"untreated_reference"`
	TreatmentColumns   []int     `json:"treatment_columns"`
	Concentrations     []float64 `json:"concentrations"`

	// Display-only labels; no effect on computation.
	DrugName string `json:"drug_name,omitempty"`
	Unit     string `json:"unit,omitempty"`
}

// Validate checks the selection against the grid before any numeric step
// runs. It is pure: no partial computation happens on failure.
func (p Params) Validate(g *Grid) error {
	if len(p.Concentrations) != len(p.TreatmentColumns) {
		return &ShapeMismatchError{
			Concentrations: len(p.Concentrations),
			Treatments:     len(p.TreatmentColumns),
		}
	}
	cols := g.Cols()
	if p.NegativeControl < 0 || p.NegativeControl >= cols {
		return &IndexOutOfRangeError{Field: "negative control", Index: p.NegativeControl, Cols: cols}
	}
	if p.UntreatedReference < 0 || p.UntreatedReference >= cols {
		return &IndexOutOfRangeError{Field: "untreated reference", Index: p.UntreatedReference, Cols: cols}
	}
	for _, t := range p.TreatmentColumns {
		if t < 0 || t >= cols {
			return &IndexOutOfRangeError{Field: "treatment", Index: t, Cols: cols}
		}
	}
	return nil
}

// CorrectBackground subtracts the mean of the negative-control column from
// every cell of the grid. The shift is a single scalar, not per-column: the
// negative control measures assay background (no cells, no stain), which is
// assumed constant across the plate. Returns a new grid; the input is
// untouched.
func CorrectBackground(g *Grid, negativeControl int) *Grid {
	background := stat.Mean(g.Column(negativeControl), nil)
	cells := make([][]float64, g.Rows())
	for r := 0; r < g.Rows(); r++ {
		row := make([]float64, g.Cols())
		for c := 0; c < g.Cols(); c++ {
			row[c] = g.At(r, c) - background
		}
		cells[r] = row
	}
	return &Grid{names: g.ColumnNames(), cells: cells}
}

// NormalizeViability converts corrected absorbance into percent viability
// relative to the untreated reference column. For each treatment column, in
// supplied order, it emits the mean and the POPULATION standard deviation
// (divide by N, not N-1; switching to the sample convention would change
// the numbers) of the
// column, each divided by the reference mean and scaled to percent.
//
// A reference mean of zero is not special-cased: the curve then carries
// IEEE Inf/NaN values, and it is the caller's job to detect them (see Run).
func NormalizeViability(corrected *Grid, untreatedReference int, treatmentColumns []int, concentrations []float64) Curve {
	referenceMean := stat.Mean(corrected.Column(untreatedReference), nil)
	curve := make(Curve, len(treatmentColumns))
	for i, t := range treatmentColumns {
		col := corrected.Column(t)
		curve[i] = ViabilityPoint{
			Concentration: concentrations[i],
			MeanViability: stat.Mean(col, nil) / referenceMean * 100,
			StdDev:        stat.PopStdDev(col, nil) / referenceMean * 100,
		}
	}
	return curve
}

// EstimateIC50 interpolates the concentration at which mean viability
// crosses 50%. Both sequences are reversed first: the lookup treats
// viability as the independent axis, which must be non-decreasing, and a
// dose-response curve entered with ascending concentrations is expected to
// be decreasing.
//
// Outside the viability range the estimate clamps to the concentration at
// the nearest end of the curve instead of extrapolating. That is a known
// limitation of the method, kept intentionally. Monotonicity of the input
// is not validated here; a non-monotone curve yields a result defined by
// the clamp policy but of no biological meaning.
func EstimateIC50(curve Curve) float64 {
	n := len(curve)
	if n == 0 {
		return math.NaN()
	}
	viabilities := make([]float64, n)
	concentrations := make([]float64, n)
	for i, p := range curve {
		viabilities[n-1-i] = p.MeanViability
		concentrations[n-1-i] = p.Concentration
	}
	return interpolate(50, viabilities, concentrations)
}

// Run executes the full pipeline: validate, correct background, normalize
// viability, estimate IC50. Validation failures return an error before any
// numeric work; numeric edge cases inside the pipeline never fail, they
// surface as warnings on the result.
func Run(g *Grid, p Params) (*Result, error) {
	if err := p.Validate(g); err != nil {
		return nil, err
	}

	corrected := CorrectBackground(g, p.NegativeControl)
	curve := NormalizeViability(corrected, p.UntreatedReference, p.TreatmentColumns, p.Concentrations)

	res := &Result{
		Curve:     curve,
		IC50:      EstimateIC50(curve),
		Monotonic: curve.monotonicNonIncreasing(),
		DrugName:  p.DrugName,
		Unit:      p.Unit,
	}
	if !curve.Finite() || math.IsNaN(res.IC50) || math.IsInf(res.IC50, 0) {
		res.NonFinite = true
		res.Warnings = append(res.Warnings,
			"viability is not finite (reference mean may be zero); the IC50 estimate is not meaningful")
	}
	if !res.Monotonic {
		res.Warnings = append(res.Warnings,
			"mean viability is not non-increasing with concentration; the IC50 estimate may not be meaningful")
	}
	return res, nil
}
