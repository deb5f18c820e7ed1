package greenops

import (
	"fmt"
	"strings"
)

// Unit is a display mass unit for CO2e figures.
type Unit string

// Supported display units.
const (
	UnitGrams     Unit = "g"
	UnitKilograms Unit = "kg"
	UnitTons      Unit = "t"
	UnitPounds    Unit = "lb"
)

// Units returns the supported units.
func Units() []Unit {
	return []Unit{UnitKilograms, UnitTons, UnitPounds, UnitGrams}
}

// UnitList returns the supported units as a comma separated list.
func UnitList() string {
	names := make([]string, 0, len(Units()))
	for _, u := range Units() {
		names = append(names, string(u))
	}
	return strings.Join(names, ", ")
}

// ParseUnit parses a unit, accepting the CO2e suffixed forms ("kgCO2e")
// case-insensitively. An empty string means kilograms.
func ParseUnit(s string) (Unit, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "co2e") {
	case "", "kg":
		return UnitKilograms, nil
	case "g":
		return UnitGrams, nil
	case "t":
		return UnitTons, nil
	case "lb":
		return UnitPounds, nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of %s)", ErrInvalidUnit, s, UnitList())
	}
}

// factor returns the multiplier from kilograms, panicking on unknown units.
func (u Unit) factor() float64 {
	switch u {
	case UnitGrams:
		return KgToGrams
	case UnitKilograms, "":
		return KgToKg
	case UnitTons:
		return KgToTons
	case UnitPounds:
		return KgToPounds
	default:
		panic(fmt.Sprintf("greenops: unknown unit %q", string(u)))
	}
}

// Symbol returns the suffix printed after a figure, e.g. "kg CO2e".
func (u Unit) Symbol() string {
	if u == "" {
		u = UnitKilograms
	}
	return string(u) + " CO2e"
}

// ConvertFromKg converts a kg CO2e figure into unit. Negative figures such as
// an e-waste credit convert as-is.
func ConvertFromKg(kg float64, unit Unit) float64 {
	return kg * unit.factor()
}
