package assay

import (
	"math"
	"sort"
)

// interpolate evaluates the piecewise-linear function defined by (xs, ys) at
// x. xs must be non-decreasing. Outside [xs[0], xs[len-1]] the result clamps
// to the boundary y value rather than extrapolating; this matches the
// standard one-dimensional interpolation convention the pipeline depends on
// (see EstimateIC50) and is deliberate, not a shortcut.
func interpolate(x float64, xs, ys []float64) float64 {
	if len(xs) == 0 || len(xs) != len(ys) {
		return math.NaN()
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	// Smallest i with xs[i] >= x; the clamps above guarantee 0 < i < len(xs).
	i := sort.SearchFloat64s(xs, x)
	if xs[i] == x {
		return ys[i]
	}
	x0, x1 := xs[i-1], xs[i]
	y0, y1 := ys[i-1], ys[i]
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}
