package assay

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIndexList parses a comma-separated list of column indices, e.g.
// "3, 4, 5, 6, 7". This is the format the surrounding tools accept for
// treatment-column selections.
func ParseIndexList(s string) ([]int, error) {
	fields, err := splitList(s)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty column index list")
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid column index %q", f)
		}
		out[i] = v
	}
	return out, nil
}

// ParseConcentrationList parses a comma-separated list of positive
// concentrations, e.g. "1, 2, 4, 8, 16".
func ParseConcentrationList(s string) ([]float64, error) {
	fields, err := splitList(s)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty concentration list")
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid concentration %q", f)
		}
		if v <= 0 {
			return nil, fmt.Errorf("concentration must be positive, got %g", v)
		}
		out[i] = v
	}
	return out, nil
}

// splitList splits on commas and trims whitespace. An empty item, as in
// "1,,2" or a trailing comma, is an error rather than a silent skip.
func splitList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, fmt.Errorf("empty item at position %d", i)
		}
		fields[i] = f
	}
	return fields, nil
}
