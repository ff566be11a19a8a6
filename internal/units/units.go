// Package units provides shared constants and formatting for concentration units
package units

import (
	"fmt"
	"math"
)

// Unit constants
const (
	MgPerML = "mg/ml"
	UgPerML = "ug/ml"
	NgPerML = "ng/ml"
	Molar   = "M"
	MilliM  = "mM"
	MicroM  = "uM"
	NanoM   = "nM"
)

// ValidUnits contains the unit labels the tools suggest. Unit labels are
// display-only: an unknown label still formats, it just isn't offered as a
// choice.
var ValidUnits = []string{MgPerML, UgPerML, NgPerML, Molar, MilliM, MicroM, NanoM}

// IsValid checks if the given unit is in the list of known units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of known units for error messages
func GetValidUnitsString() string {
	return "mg/ml, ug/ml, ng/ml, M, mM, uM, nM"
}

// Format renders a concentration for display with two decimal places, e.g.
// "6.67 mg/ml". Non-finite values render as "undefined" so a failed estimate
// never shows a bare NaN to the user.
func Format(value float64, unit string) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		if unit == "" {
			return "undefined"
		}
		return "undefined (" + unit + ")"
	}
	if unit == "" {
		return fmt.Sprintf("%.2f", value)
	}
	return fmt.Sprintf("%.2f %s", value, unit)
}
