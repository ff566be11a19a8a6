package assay

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseTSV reads a tab-separated numeric grid with one header row. This is
// the only file format the pipeline understands; anything richer has to be
// converted by the caller first. Blank lines are skipped, a trailing
// carriage return is tolerated, and every data row must match the header
// width.
func ParseTSV(r io.Reader) (*Grid, error) {
	scanner := bufio.NewScanner(r)

	var names []string
	var rows [][]float64
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if names == nil {
			names = make([]string, len(fields))
			for i, f := range fields {
				names[i] = strings.TrimSpace(f)
			}
			continue
		}

		if len(fields) != len(names) {
			return nil, fmt.Errorf("line %d: %d values, expected %d", lineNo, len(fields), len(names))
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %d: invalid number %q", lineNo, i, strings.TrimSpace(f))
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if names == nil {
		return nil, fmt.Errorf("empty input: missing header row")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows after header")
	}
	return &Grid{names: names, cells: rows}, nil
}
