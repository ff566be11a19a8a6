package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/banshee-data/viability.report/internal/assay"
	"github.com/banshee-data/viability.report/internal/httputil"
	"github.com/banshee-data/viability.report/internal/monitoring"
	"github.com/banshee-data/viability.report/internal/report"
	"github.com/banshee-data/viability.report/internal/units"
)

// maxBodyBytes caps request bodies; absorbance grids are tiny.
const maxBodyBytes = 4 << 20

// computeRequest is the JSON body for /ic50 (and the POST variants of
// /plot and /chart). Exactly one of TSV or Grid must be supplied.
type computeRequest struct {
	TSV     string      `json:"tsv,omitempty"`
	Columns []string    `json:"columns,omitempty"`
	Grid    [][]float64 `json:"grid,omitempty"`

	NegativeControl    int       `json:"negative_control"`
	UntreatedReference int       `json:"untreated_reference"`
	TreatmentColumns   []int     `json:"treatment_columns"`
	Concentrations     []float64 `json:"concentrations"`
	DrugName           string    `json:"drug_name,omitempty"`
	Unit               string    `json:"unit,omitempty"`
}

func (req *computeRequest) grid() (*assay.Grid, error) {
	switch {
	case req.TSV != "" && req.Grid != nil:
		return nil, fmt.Errorf("supply either tsv or grid, not both")
	case req.TSV != "":
		return assay.ParseTSV(strings.NewReader(req.TSV))
	case req.Grid != nil:
		if len(req.Grid) == 0 {
			return nil, fmt.Errorf("grid requires at least one row")
		}
		names := req.Columns
		if len(names) == 0 {
			names = make([]string, len(req.Grid[0]))
			for i := range names {
				names[i] = fmt.Sprintf("col%d", i)
			}
		}
		return assay.NewGrid(names, req.Grid)
	default:
		return nil, fmt.Errorf("missing grid data: supply tsv or grid")
	}
}

func (req *computeRequest) params() assay.Params {
	return assay.Params{
		NegativeControl:    req.NegativeControl,
		UntreatedReference: req.UntreatedReference,
		TreatmentColumns:   req.TreatmentColumns,
		Concentrations:     req.Concentrations,
		DrugName:           req.DrugName,
		Unit:               req.Unit,
	}
}

// computeResponse wraps a pipeline result with the two-decimal display
// string the presentation layer shows next to the plot.
type computeResponse struct {
	*assay.Result
	IC50Display string `json:"ic50_display"`
}

func newComputeResponse(res *assay.Result) computeResponse {
	return computeResponse{Result: res, IC50Display: units.Format(res.IC50, res.Unit)}
}

// runRequest executes the pipeline for a decoded request, mapping
// validation failures to 400. Numeric edge cases come back as warnings in a
// 200 body, never as a 5xx.
func runRequest(w http.ResponseWriter, req *computeRequest) *assay.Result {
	grid, err := req.grid()
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return nil
	}
	res, err := assay.Run(grid, req.params())
	if err != nil {
		var shape *assay.ShapeMismatchError
		var index *assay.IndexOutOfRangeError
		if errors.As(err, &shape) || errors.As(err, &index) {
			httputil.BadRequest(w, err.Error())
		} else {
			httputil.InternalServerError(w, err.Error())
		}
		return nil
	}
	return res
}

func decodeComputeRequest(w http.ResponseWriter, r *http.Request) *computeRequest {
	var req computeRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid JSON body: %v", err))
		return nil
	}
	return &req
}

func (s *Server) computeIC50(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	req := decodeComputeRequest(w, r)
	if req == nil {
		return
	}
	if res := runRequest(w, req); res != nil {
		httputil.WriteJSONOK(w, newComputeResponse(res))
	}
}

// computeIC50TSV accepts a raw TSV body with the column selection in the
// query string, using the same comma-separated formats as the CLI:
// ?neg=0&ref=2&treat=3,4,5,6,7&conc=1,2,4,8,16&drug=X&unit=mg/ml
func (s *Server) computeIC50TSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.BadRequest(w, fmt.Sprintf("reading body: %v", err))
		return
	}

	q := r.URL.Query()
	req := &computeRequest{
		TSV:      string(body),
		DrugName: q.Get("drug"),
		Unit:     q.Get("unit"),
	}
	if req.NegativeControl, err = queryInt(q.Get("neg"), 0); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid 'neg' parameter: %v", err))
		return
	}
	if req.UntreatedReference, err = queryInt(q.Get("ref"), 2); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid 'ref' parameter: %v", err))
		return
	}
	if req.TreatmentColumns, err = assay.ParseIndexList(q.Get("treat")); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid 'treat' parameter: %v", err))
		return
	}
	if req.Concentrations, err = assay.ParseConcentrationList(q.Get("conc")); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid 'conc' parameter: %v", err))
		return
	}

	if res := runRequest(w, req); res != nil {
		httputil.WriteJSONOK(w, newComputeResponse(res))
	}
}

func queryInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return v, nil
}

// showExample returns the embedded example dataset with the parameters that
// fit it, so a client can round-trip it straight back into /ic50.
func (s *Server) showExample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	grid, err := assay.ExampleGrid()
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{
		"tsv":     assay.ExampleTSV(),
		"columns": grid.ColumnNames(),
		"grid":    grid.Values(),
		"params":  s.defaults,
	})
}

// exampleOrPostedResult resolves the result to render: a POST body carries a
// full compute request, a GET renders the embedded example with the
// server's defaults.
func (s *Server) exampleOrPostedResult(w http.ResponseWriter, r *http.Request) *assay.Result {
	switch r.Method {
	case http.MethodPost:
		req := decodeComputeRequest(w, r)
		if req == nil {
			return nil
		}
		return runRequest(w, req)
	case http.MethodGet:
		grid, err := assay.ExampleGrid()
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return nil
		}
		res, err := assay.Run(grid, s.defaults)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return nil
		}
		return res
	default:
		httputil.MethodNotAllowed(w)
		return nil
	}
}

func (s *Server) renderPlot(w http.ResponseWriter, r *http.Request) {
	res := s.exampleOrPostedResult(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := report.WritePlotPNG(w, res); err != nil {
		// Headers are already gone; log rather than attempt a JSON error.
		monitoring.Logf("failed to render plot: %v", err)
	}
}

func (s *Server) renderChart(w http.ResponseWriter, r *http.Request) {
	res := s.exampleOrPostedResult(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.RenderChartHTML(w, res); err != nil {
		monitoring.Logf("failed to render chart: %v", err)
	}
}
