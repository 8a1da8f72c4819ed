package units

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	cases := map[string]System{
		"mm":     Millimeters,
		"cm":     Centimeters,
		"m":      Meters,
		"in":     Inches,
		"inches": Inches,
	}
	for input, expected := range cases {
		system, err := Parse(input)
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", input, err)
		}
		if system != expected {
			t.Errorf("Parse(%q): expected %v, got %v", input, expected, system)
		}
	}

	if _, err := Parse("furlongs"); err == nil {
		t.Error("expected error for unknown unit system")
	}
}

func TestFormatLength(t *testing.T) {
	cases := []struct {
		system   System
		mm       float64
		expected string
	}{
		{Millimeters, 12.345, "12.35 mm"},
		{Centimeters, 12.345, "1.23 cm"},
		{Meters, 1500, "1.50 m"},
		{Inches, 25.4, "1.00 in"},
	}
	for _, c := range cases {
		if got := c.system.FormatLength(c.mm); got != c.expected {
			t.Errorf("FormatLength(%v): expected %q, got %q", c.mm, c.expected, got)
		}
	}
}

func TestFormatAngle(t *testing.T) {
	if got := Millimeters.FormatAngle(math.Pi / 2); got != "90.0°" {
		t.Errorf("FormatAngle: expected %q, got %q", "90.0°", got)
	}
}
