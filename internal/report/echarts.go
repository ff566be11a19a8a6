package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/viability.report/internal/assay"
	"github.com/banshee-data/viability.report/internal/units"
)

// RenderChartHTML renders the viability curve as a self-contained HTML line
// chart using go-echarts, with a mark line at 50% viability and the IC50
// estimate in the subtitle. Intended for quick in-browser inspection without
// any frontend build.
func RenderChartHTML(w io.Writer, res *assay.Result) error {
	if len(res.Curve) == 0 {
		return fmt.Errorf("empty curve, nothing to chart")
	}

	xLabels := make([]string, len(res.Curve))
	data := make([]opts.LineData, len(res.Curve))
	spread := make([]opts.LineData, len(res.Curve))
	for i, p := range res.Curve {
		xLabels[i] = fmt.Sprintf("%g", p.Concentration)
		data[i] = opts.LineData{Value: p.MeanViability}
		spread[i] = opts.LineData{Value: p.StdDev}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "IC50 dose-response", Width: "900px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    plotTitle(res),
			Subtitle: fmt.Sprintf("Estimated IC50: %s", units.Format(res.IC50, res.Unit)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xAxisLabel(res.Unit), NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "% Viability", NameLocation: "middle", NameGap: 40}),
	)

	line.SetXAxis(xLabels).
		AddSeries("% viability", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
			charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "50% viability", YAxis: 50}),
		).
		AddSeries("SD", spread)

	return line.Render(w)
}
