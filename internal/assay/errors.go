package assay

import "fmt"

// ShapeMismatchError reports a concentration series whose length does not
// match the number of treatment columns. Both counts are carried so the
// caller can build a user-facing message.
type ShapeMismatchError struct {
	Concentrations int
	Treatments     int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("concentration count (%d) does not match treatment column count (%d)",
		e.Concentrations, e.Treatments)
}

// IndexOutOfRangeError reports a configured column index that does not fit
// the grid. Field names which parameter was at fault.
type IndexOutOfRangeError struct {
	Field string
	Index int
	Cols  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("%s column index %d out of range [0, %d)", e.Field, e.Index, e.Cols)
}
