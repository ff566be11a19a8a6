// Command ic50 computes an IC50 estimate from a TSV absorbance grid in one
// shot, for batch use or quick checks without the HTTP server.
//
// Usage:
//
//	ic50 -input data.tsv -neg 0 -ref 2 -treat 3,4,5,6,7 -conc 1,2,4,8,16 \
//	     -drug cisplatin -unit uM [-plot out.png] [-chart out.html]
//
// -input also accepts "-" for stdin, an http(s) URL, or "example" for the
// embedded example dataset.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/banshee-data/viability.report/internal/assay"
	"github.com/banshee-data/viability.report/internal/config"
	"github.com/banshee-data/viability.report/internal/httputil"
	"github.com/banshee-data/viability.report/internal/report"
	"github.com/banshee-data/viability.report/internal/units"
)

type options struct {
	input      string
	neg        int
	ref        int
	treat      string
	conc       string
	drug       string
	unit       string
	configPath string
	plotPath   string
	chartPath  string

	// set records which flags were given explicitly, so a config file can
	// fill in the rest.
	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("ic50", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.input, "input", "", `TSV input: a path, "-" for stdin, an http(s) URL, or "example"`)
	fs.IntVar(&o.neg, "neg", 0, "Column index of the negative control (no cells, no stain)")
	fs.IntVar(&o.ref, "ref", 2, "Column index of the untreated reference (cells, stain, no drug)")
	fs.StringVar(&o.treat, "treat", "3,4,5,6,7", "Comma-separated treatment column indices")
	fs.StringVar(&o.conc, "conc", "1,2,4,8,16", "Comma-separated drug concentrations, ascending")
	fs.StringVar(&o.drug, "drug", "", "Drug name (display only)")
	fs.StringVar(&o.unit, "unit", units.MgPerML, "Concentration unit label (display only)")
	fs.StringVar(&o.configPath, "config", "", "Assay defaults JSON to apply before flags")
	fs.StringVar(&o.plotPath, "plot", "", "Write a PNG dose-response plot to this path")
	fs.StringVar(&o.chartPath, "chart", "", "Write an HTML chart to this path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	if o.input == "" {
		fmt.Fprintln(stderr, "ic50: -input is required")
		return nil, fmt.Errorf("-input is required")
	}
	return o, nil
}

// params resolves the pipeline parameters: config-file values are the base,
// and any flag given explicitly on the command line overrides them.
func (o *options) params() (assay.Params, error) {
	var p assay.Params
	if o.configPath != "" {
		cfg, err := config.LoadAssayConfig(o.configPath)
		if err != nil {
			return p, err
		}
		p = cfg.Params()
	} else {
		p = assay.Params{DrugName: o.drug, Unit: o.unit}
	}

	var err error
	if o.configPath == "" || o.set["neg"] {
		p.NegativeControl = o.neg
	}
	if o.configPath == "" || o.set["ref"] {
		p.UntreatedReference = o.ref
	}
	if o.configPath == "" || o.set["treat"] {
		if p.TreatmentColumns, err = assay.ParseIndexList(o.treat); err != nil {
			return p, fmt.Errorf("-treat: %w", err)
		}
	}
	if o.configPath == "" || o.set["conc"] {
		if p.Concentrations, err = assay.ParseConcentrationList(o.conc); err != nil {
			return p, fmt.Errorf("-conc: %w", err)
		}
	}
	if o.set["drug"] {
		p.DrugName = o.drug
	}
	if o.set["unit"] {
		p.Unit = o.unit
	}
	return p, nil
}

// loadGrid reads the absorbance grid from the configured source. URLs go
// through the injected client so tests can serve canned data.
func loadGrid(o *options, stdin io.Reader, client httputil.HTTPClient) (*assay.Grid, error) {
	switch {
	case o.input == "example":
		return assay.ExampleGrid()
	case o.input == "-":
		return assay.ParseTSV(stdin)
	case strings.HasPrefix(o.input, "http://"), strings.HasPrefix(o.input, "https://"):
		resp, err := client.Get(o.input)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", o.input, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", o.input, resp.StatusCode)
		}
		return assay.ParseTSV(resp.Body)
	default:
		f, err := os.Open(o.input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return assay.ParseTSV(f)
	}
}

func printResult(w io.Writer, res *assay.Result) {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CONCENTRATION\tVIABILITY %\tSD")
	for _, p := range res.Curve {
		fmt.Fprintf(tw, "%g\t%.2f\t%.2f\n", p.Concentration, p.MeanViability, p.StdDev)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nEstimated IC50: %s\n", units.Format(res.IC50, res.Unit))
	for _, warning := range res.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func writeArtifact(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, client httputil.HTTPClient) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	p, err := o.params()
	if err != nil {
		fmt.Fprintf(stderr, "ic50: %v\n", err)
		return 1
	}

	grid, err := loadGrid(o, stdin, client)
	if err != nil {
		fmt.Fprintf(stderr, "ic50: %v\n", err)
		return 1
	}

	res, err := assay.Run(grid, p)
	if err != nil {
		fmt.Fprintf(stderr, "ic50: %v\n", err)
		return 1
	}

	printResult(stdout, res)

	if o.plotPath != "" {
		if err := writeArtifact(o.plotPath, func(w io.Writer) error {
			return report.WritePlotPNG(w, res)
		}); err != nil {
			fmt.Fprintf(stderr, "ic50: writing plot: %v\n", err)
			return 1
		}
	}
	if o.chartPath != "" {
		if err := writeArtifact(o.chartPath, func(w io.Writer) error {
			return report.RenderChartHTML(w, res)
		}); err != nil {
			fmt.Fprintf(stderr, "ic50: writing chart: %v\n", err)
			return 1
		}
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, httputil.NewStandardClient(nil)))
}
