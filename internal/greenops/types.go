// Package greenops turns an annual footprint in kg CO2e into relatable
// everyday equivalences (burgers eaten, LED-bulb days, car kilometres,
// streaming hours) and formats figures for display.
package greenops

import "fmt"

// EquivalenceType identifies one everyday equivalence.
type EquivalenceType int

const (
	// EquivalenceBurgers is the number of beef burgers.
	EquivalenceBurgers EquivalenceType = iota

	// EquivalenceLEDBulbDays is days of one hundred 10 W LED bulbs lit.
	EquivalenceLEDBulbDays

	// EquivalenceCarKm is km driven by car.
	EquivalenceCarKm

	// EquivalenceStreamingHours is hours of video streaming.
	EquivalenceStreamingHours
)

// EquivalenceTypes returns every equivalence in display order.
func EquivalenceTypes() []EquivalenceType {
	return []EquivalenceType{
		EquivalenceBurgers, EquivalenceLEDBulbDays, EquivalenceCarKm, EquivalenceStreamingHours,
	}
}

// String returns the identifier of the EquivalenceType.
func (e EquivalenceType) String() string {
	switch e {
	case EquivalenceBurgers:
		return "Burgers"
	case EquivalenceLEDBulbDays:
		return "LEDBulbDays"
	case EquivalenceCarKm:
		return "CarKm"
	case EquivalenceStreamingHours:
		return "StreamingHours"
	default:
		return fmt.Sprintf("EquivalenceType(%d)", e)
	}
}

// Label returns the phrase shown after the quantity.
func (e EquivalenceType) Label() string {
	switch e {
	case EquivalenceBurgers:
		return "burgers eaten"
	case EquivalenceLEDBulbDays:
		return "days of 100 LED bulbs lit"
	case EquivalenceCarKm:
		return "km driven by car"
	case EquivalenceStreamingHours:
		return "hours of video streaming"
	default:
		return e.String()
	}
}

// Sentence returns the everyday action matching a formatted quantity, e.g.
// "Drive a gasoline car for ~882 km".
func (e EquivalenceType) Sentence(quantity string) string {
	switch e {
	case EquivalenceBurgers:
		return "Produce ~" + quantity + " beef burgers"
	case EquivalenceLEDBulbDays:
		return "Keep 100 LED bulbs (10W) on for ~" + quantity + " days"
	case EquivalenceCarKm:
		return "Drive a gasoline car for ~" + quantity + " km"
	case EquivalenceStreamingHours:
		return "Watch Netflix for ~" + quantity + " hours"
	default:
		return quantity + " " + e.String()
	}
}

// EquivalenceSet holds the four equivalences of a total, unrounded.
type EquivalenceSet struct {
	Burgers        float64 `json:"burgers"`
	LEDBulbDays    float64 `json:"led_bulb_days"`
	CarKm          float64 `json:"car_km"`
	StreamingHours float64 `json:"streaming_hours"`
}

// Value returns the quantity of one equivalence.
func (s EquivalenceSet) Value(e EquivalenceType) float64 {
	switch e {
	case EquivalenceBurgers:
		return s.Burgers
	case EquivalenceLEDBulbDays:
		return s.LEDBulbDays
	case EquivalenceCarKm:
		return s.CarKm
	case EquivalenceStreamingHours:
		return s.StreamingHours
	default:
		return 0
	}
}

// EquivalenceResult is one display-ready equivalence.
type EquivalenceResult struct {
	// Type identifies the equivalence.
	Type EquivalenceType `json:"type"`

	// Value is the raw quantity.
	Value float64 `json:"value"`

	// FormattedValue is the rounded, separated quantity.
	FormattedValue string `json:"formatted_value"`

	// Label is the descriptive phrase (e.g. "burgers eaten").
	Label string `json:"label"`

	// Text is the full sentence (e.g. "Produce ~33 beef burgers").
	Text string `json:"text"`
}
