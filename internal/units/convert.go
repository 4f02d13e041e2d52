package units

import "math"

// Unit is the display unit for weight values. The canonical stored
// value is always kilograms, conversion happens only at the edges.
type Unit string

const (
	Kg  Unit = "kg"
	Lbs Unit = "lbs"
)

const KgToLbs = 2.20462

type DisplayWeight struct {
	Value     float64 `json:"value"`
	UnitLabel Unit    `json:"unitLabel"`
}

// Convert converts a canonical kg weight to the given display unit.
// Lbs values are rounded to 1 decimal place for cleaner display.
func Convert(weightInKg float64, unit Unit) DisplayWeight {
	if unit == Kg {
		return DisplayWeight{Value: weightInKg, UnitLabel: Kg}
	}
	inLbs := weightInKg * KgToLbs
	return DisplayWeight{Value: math.Round(inLbs*10) / 10, UnitLabel: Lbs}
}

// ToKg converts a display-unit weight back to canonical kilograms.
func ToKg(weight float64, unit Unit) float64 {
	if unit == Kg {
		return weight
	}
	return weight / KgToLbs
}

// Valid reports whether the given unit is one of the supported display units.
func Valid(unit Unit) bool {
	return unit == Kg || unit == Lbs
}
