// Package assay implements the numeric pipeline for colorimetric
// cell-viability (MTT) dose-response analysis: background correction,
// viability normalization against an untreated reference, and IC50
// estimation by linear interpolation of the response curve.
package assay

import "fmt"

// Grid is an immutable absorbance matrix: rows are replicate measurements,
// columns are experimental conditions. Columns are addressed by zero-based
// positional index; names come from the TSV header row and are carried for
// display only.
type Grid struct {
	names []string
	cells [][]float64
}

// NewGrid builds a grid from a header and rectangular row data. The rows are
// copied so the caller cannot alias the grid's storage afterwards.
func NewGrid(names []string, rows [][]float64) (*Grid, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("grid requires at least one column")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid requires at least one row")
	}
	cells := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(names) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i+1, len(row), len(names))
		}
		cells[i] = append([]float64(nil), row...)
	}
	return &Grid{names: names, cells: cells}, nil
}

// Rows returns the number of replicate rows.
func (g *Grid) Rows() int { return len(g.cells) }

// Cols returns the number of condition columns.
func (g *Grid) Cols() int { return len(g.names) }

// At returns the absorbance at row r, column c.
func (g *Grid) At(r, c int) float64 { return g.cells[r][c] }

// ColumnNames returns a copy of the header names.
func (g *Grid) ColumnNames() []string {
	return append([]string(nil), g.names...)
}

// Column returns a copy of column c's values across all rows.
func (g *Grid) Column(c int) []float64 {
	out := make([]float64, len(g.cells))
	for r, row := range g.cells {
		out[r] = row[c]
	}
	return out
}

// Values returns a copy of the full matrix, row-major.
func (g *Grid) Values() [][]float64 {
	out := make([][]float64, len(g.cells))
	for i, row := range g.cells {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
