package greenops

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f to precision decimals and adds thousand separators to
// the integer part. Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision <= 0 {
		return FormatNumber(int64(math.Round(f)))
	}

	// Round half away from zero before formatting; strconv rounds half to even.
	scale := math.Pow(10, float64(precision))
	rounded := math.Round(f*scale) / scale
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, frac, ok := strings.Cut(formatted, ".")
	if !ok {
		return formatted
	}
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}
	if n == 0 && rounded < 0 {
		return "-0." + frac
	}
	return FormatNumber(n) + "." + frac
}

// FormatLarge abbreviates magnitudes of one million or more as
// "~X.X million" or "~X.X billion"; smaller values are rounded and separated.
func FormatLarge(n float64) string {
	abs := math.Abs(n)
	switch {
	case abs >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case abs >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}

// FormatMass converts kg to unit and renders it with its unit suffix,
// e.g. "1,234.57 kg CO2e".
func FormatMass(kg float64, unit Unit, precision int) string {
	return FormatFloat(ConvertFromKg(kg, unit), precision) + " " + unit.Symbol()
}
