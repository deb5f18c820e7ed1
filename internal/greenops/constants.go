package greenops

// Equivalence factors. Each equivalence is a plain division of the annual
// total by its factor:
//
//	equivalence = kg_CO2e / factor
const (
	// BurgerKg is kg CO2e of one beef burger.
	BurgerKg = 4.6

	// LEDBulbKgPerHour is kg CO2e of one hour of one hundred 10 W LED bulbs.
	LEDBulbKgPerHour = 0.256

	// HoursPerDay turns LED-bulb hours into days.
	HoursPerDay = 24.0

	// CarKgPerKm is kg CO2e per km driven in an average petrol car.
	CarKgPerKm = 0.17

	// StreamingKgPerHour is kg CO2e of one hour of HD video streaming.
	StreamingKgPerHour = 0.055
)

// Mass conversion factors from kilograms.
const (
	// KgToGrams converts kilograms to grams.
	KgToGrams = 1000.0

	// KgToKg is the identity conversion.
	KgToKg = 1.0

	// KgToTons converts kilograms to metric tons.
	KgToTons = 0.001

	// KgToPounds converts kilograms to pounds.
	KgToPounds = 2.20462
)

// Display thresholds.
const (
	// LargeNumberThreshold is the value from which "~X.X million" is used.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold is the value from which "~X.X billion" is used.
	BillionThreshold = 1_000_000_000
)
