// Package report renders presentation artifacts from a computed
// dose-response result: a PNG error-bar plot and an HTML chart. Nothing in
// here feeds back into the computation; the 50%-viability and IC50
// reference lines are derived purely for display.
package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/viability.report/internal/assay"
	"github.com/banshee-data/viability.report/internal/units"
)

// viabilityData adapts a curve for plotting: XY points plus asymmetric-free
// Y errors (the stddev both ways).
type viabilityData struct {
	plotter.XYs
	plotter.YErrors
}

func curveData(curve assay.Curve) viabilityData {
	d := viabilityData{
		XYs:     make(plotter.XYs, len(curve)),
		YErrors: make(plotter.YErrors, len(curve)),
	}
	for i, p := range curve {
		d.XYs[i] = plotter.XY{X: p.Concentration, Y: p.MeanViability}
		d.YErrors[i].Low = p.StdDev
		d.YErrors[i].High = p.StdDev
	}
	return d
}

func plotTitle(res *assay.Result) string {
	name := res.DrugName
	if name == "" {
		name = "Drug"
	}
	return fmt.Sprintf("MTT assay - IC50 determination for %s", name)
}

func xAxisLabel(unit string) string {
	if unit == "" {
		return "Concentration"
	}
	return fmt.Sprintf("Concentration (%s)", unit)
}

// WritePlotPNG renders the viability curve with error bars, a dashed
// horizontal reference at 50% viability, and a dashed vertical reference at
// the IC50 estimate. A non-finite estimate simply omits the vertical line.
func WritePlotPNG(w io.Writer, res *assay.Result) error {
	if len(res.Curve) == 0 {
		return fmt.Errorf("empty curve, nothing to plot")
	}

	p := plot.New()
	p.Title.Text = plotTitle(res)
	p.X.Label.Text = xAxisLabel(res.Unit)
	p.Y.Label.Text = "% Viability"
	p.Add(plotter.NewGrid())

	data := curveData(res.Curve)

	line, err := plotter.NewLine(data.XYs)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{B: 128, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)

	scatter, err := plotter.NewScatter(data.XYs)
	if err != nil {
		return err
	}
	scatter.Color = color.RGBA{B: 128, A: 255}
	p.Add(scatter)

	errBars, err := plotter.NewYErrorBars(data)
	if err != nil {
		return err
	}
	errBars.Color = color.RGBA{B: 128, A: 255}
	p.Add(errBars)
	p.Legend.Add("% Viability ± SD", line)

	// X extent for the horizontal reference line.
	xMin, xMax := data.XYs[0].X, data.XYs[0].X
	yMax := 0.0
	for i := range data.XYs {
		x := data.XYs[i].X
		if x < xMin {
			xMin = x
		}
		if x > xMax {
			xMax = x
		}
		if top := data.XYs[i].Y + data.YErrors[i].High; top > yMax {
			yMax = top
		}
	}

	halfLine, err := plotter.NewLine(plotter.XYs{{X: xMin, Y: 50}, {X: xMax, Y: 50}})
	if err != nil {
		return err
	}
	halfLine.Color = color.RGBA{R: 196, A: 255}
	halfLine.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(halfLine)
	p.Legend.Add("50% viability", halfLine)

	if !math.IsNaN(res.IC50) && !math.IsInf(res.IC50, 0) {
		icLine, err := plotter.NewLine(plotter.XYs{{X: res.IC50, Y: 0}, {X: res.IC50, Y: yMax}})
		if err != nil {
			return err
		}
		icLine.Color = color.RGBA{R: 196, A: 255}
		icLine.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		p.Add(icLine)
		p.Legend.Add("IC50 = "+units.Format(res.IC50, res.Unit), icLine)
	}

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
