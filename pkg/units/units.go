// Package units provides the unit systems used to format measurement
// values for display. Model space is always millimeters; a System converts
// on formatting only.
package units

import (
	"fmt"
	"math"
)

// System identifies a display unit system.
type System int

const (
	Millimeters System = iota
	Centimeters
	Meters
	Inches
)

// Parse resolves a unit system from its configuration string.
func Parse(s string) (System, error) {
	switch s {
	case "mm", "millimeters":
		return Millimeters, nil
	case "cm", "centimeters":
		return Centimeters, nil
	case "m", "meters":
		return Meters, nil
	case "in", "inches":
		return Inches, nil
	default:
		return Millimeters, fmt.Errorf("unknown unit system %q", s)
	}
}

// String returns the short suffix for the system.
func (s System) String() string {
	switch s {
	case Centimeters:
		return "cm"
	case Meters:
		return "m"
	case Inches:
		return "in"
	default:
		return "mm"
	}
}

// factor converts from millimeters to the system's unit.
func (s System) factor() float64 {
	switch s {
	case Centimeters:
		return 0.1
	case Meters:
		return 0.001
	case Inches:
		return 1.0 / 25.4
	default:
		return 1
	}
}

// FormatLength formats a length given in model units (millimeters).
func (s System) FormatLength(mm float64) string {
	return fmt.Sprintf("%.2f %s", mm*s.factor(), s)
}

// FormatAngle formats an angle given in radians as degrees.
func (s System) FormatAngle(rad float64) string {
	return fmt.Sprintf("%.1f°", rad*180/math.Pi)
}
