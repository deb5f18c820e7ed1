package greenops

import (
	"fmt"
	"math"
	"strings"
)

// ComputeEquivalences converts an annual total in kg CO2e into the four
// everyday equivalences. Values are not rounded; a negative total yields
// negative equivalences.
func ComputeEquivalences(totalKg float64) EquivalenceSet {
	return EquivalenceSet{
		Burgers:        totalKg / BurgerKg,
		LEDBulbDays:    totalKg / LEDBulbKgPerHour / HoursPerDay,
		CarKm:          totalKg / CarKgPerKm,
		StreamingHours: totalKg / StreamingKgPerHour,
	}
}

// Results returns the set as display-ready entries in display order.
func (s EquivalenceSet) Results() []EquivalenceResult {
	types := EquivalenceTypes()
	out := make([]EquivalenceResult, 0, len(types))
	for _, e := range types {
		v := s.Value(e)
		formatted := formatEquivalenceValue(v)
		out = append(out, EquivalenceResult{
			Type:           e,
			Value:          v,
			FormattedValue: formatted,
			Label:          e.Label(),
			Text:           e.Sentence(strings.TrimPrefix(formatted, "~")),
		})
	}
	return out
}

// DisplayText renders the set on one line, e.g.
// "Equivalent to: Produce ~22 beef burgers; Keep 100 LED bulbs (10W) on for ~16 days; ...".
func (s EquivalenceSet) DisplayText() string {
	parts := make([]string, 0, len(EquivalenceTypes()))
	for _, r := range s.Results() {
		parts = append(parts, r.Text)
	}
	return "Equivalent to: " + strings.Join(parts, "; ")
}

// Check reports ErrCalculationOverflow when any quantity is infinite or NaN.
func (s EquivalenceSet) Check() error {
	for _, e := range EquivalenceTypes() {
		v := s.Value(e)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("%s: %w", e, ErrCalculationOverflow)
		}
	}
	return nil
}

// formatEquivalenceValue rounds to an integer, switching to the abbreviated
// form from one million.
func formatEquivalenceValue(v float64) string {
	if math.Abs(v) >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
