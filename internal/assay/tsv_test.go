package assay

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTSV(t *testing.T) {
	in := "neg\tref\tdrug\n0.05\t1.0\t0.7\n0.06\t1.1\t0.72\n"
	g, err := ParseTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseTSV: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("got %dx%d grid, want 2x3", g.Rows(), g.Cols())
	}
	if diff := cmp.Diff([]string{"neg", "ref", "drug"}, g.ColumnNames()); diff != "" {
		t.Errorf("column names (-want +got):\n%s", diff)
	}
	if g.At(1, 2) != 0.72 {
		t.Errorf("At(1,2) = %v, want 0.72", g.At(1, 2))
	}
}

func TestParseTSVWindowsLineEndings(t *testing.T) {
	in := "a\tb\r\n1\t2\r\n"
	g, err := ParseTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseTSV: %v", err)
	}
	if g.At(0, 1) != 2 {
		t.Errorf("At(0,1) = %v, want 2", g.At(0, 1))
	}
}

func TestParseTSVSkipsBlankLines(t *testing.T) {
	in := "a\tb\n\n1\t2\n\n3\t4\n"
	g, err := ParseTSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseTSV: %v", err)
	}
	if g.Rows() != 2 {
		t.Errorf("got %d rows, want 2", g.Rows())
	}
}

func TestParseTSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantSub string
	}{
		{"empty input", "", "missing header"},
		{"header only", "a\tb\n", "no data rows"},
		{"ragged row", "a\tb\n1\t2\t3\n", "line 2"},
		{"non-numeric cell", "a\tb\n1\tx\n", `invalid number "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTSV(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestExampleGrid(t *testing.T) {
	g, err := ExampleGrid()
	if err != nil {
		t.Fatalf("ExampleGrid: %v", err)
	}
	if g.Rows() != 3 || g.Cols() != 8 {
		t.Fatalf("example grid is %dx%d, want 3x8", g.Rows(), g.Cols())
	}

	p := DefaultParams()
	if err := p.Validate(g); err != nil {
		t.Fatalf("default params do not fit the example grid: %v", err)
	}

	res, err := Run(g, p)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.IC50 <= 4 || res.IC50 >= 8 {
		t.Errorf("example IC50 = %v, want between 4 and 8", res.IC50)
	}

	// Lazy load is memoized: same grid pointer on every call.
	again, err := ExampleGrid()
	if err != nil {
		t.Fatalf("ExampleGrid: %v", err)
	}
	if again != g {
		t.Error("example grid should be parsed once and cached")
	}
}
