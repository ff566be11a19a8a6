package assay

import (
	_ "embed"
	"strings"
	"sync"
)

// Embedded example dataset: three replicate rows across a negative control,
// cells without stain, an untreated reference, and five treatment columns
// with decreasing absorbance.
//
//go:embed example.tsv
var exampleTSV string

var (
	exampleOnce sync.Once
	exampleGrid *Grid
	exampleErr  error
)

// ExampleGrid returns the embedded example dataset, parsed once per process.
func ExampleGrid() (*Grid, error) {
	exampleOnce.Do(func() {
		exampleGrid, exampleErr = ParseTSV(strings.NewReader(exampleTSV))
	})
	return exampleGrid, exampleErr
}

// ExampleTSV returns the raw embedded example file.
func ExampleTSV() string { return exampleTSV }

// DefaultParams returns the column selection and concentration series that
// match the example dataset's layout: negative control in column 0,
// untreated reference in column 2, treatments in columns 3..7 at doubling
// concentrations.
func DefaultParams() Params {
	return Params{
		NegativeControl:    0,
		UntreatedReference: 2,
		TreatmentColumns:   []int{3, 4, 5, 6, 7},
		Concentrations:     []float64{1, 2, 4, 8, 16},
		DrugName:           "Example drug",
		Unit:               "mg/ml",
	}
}
