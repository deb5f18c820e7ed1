package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/greendilt/digicarbon/internal/config"
	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/greenops"
	"github.com/greendilt/digicarbon/internal/insight"
)

const (
	tabPadding         = 2
	headerSeparatorLen = 60
)

// renderOptions controls how figures are displayed.
type renderOptions struct {
	unit      greenops.Unit
	precision int
	details   bool
}

func (o renderOptions) mass(kg float64) string {
	return greenops.FormatMass(kg, o.unit, o.precision)
}

// renderCalculations renders the results in the requested format.
func renderCalculations(w io.Writer, format string, results []calculation, opts renderOptions) error {
	switch format {
	case config.FormatJSON:
		return renderCalculationsJSON(w, results)
	case config.FormatNDJSON:
		return renderCalculationsNDJSON(w, results)
	default:
		return renderCalculationsTable(w, results, opts)
	}
}

// renderCalculationsJSON writes a single object for one result and an array
// otherwise.
func renderCalculationsJSON(w io.Writer, results []calculation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var v any = results
	if len(results) == 1 {
		v = results[0]
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// renderCalculationsNDJSON writes one compact object per line.
func renderCalculationsNDJSON(w io.Writer, results []calculation) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding NDJSON: %w", err)
		}
	}
	return nil
}

func renderCalculationsTable(w io.Writer, results []calculation, opts renderOptions) error {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := renderCalculationTable(w, r, opts); err != nil {
			return err
		}
	}
	return nil
}

// renderCalculationTable renders one result: the category breakdown, the
// equivalences, the optional device detail and the tips.
func renderCalculationTable(w io.Writer, r calculation, opts renderOptions) error {
	fmt.Fprintf(w, "Digital Carbon Footprint: %s\n", r.Source)
	fmt.Fprintln(w, strings.Repeat("=", headerSeparatorLen))

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tFOOTPRINT/YEAR\tSHARE")
	fmt.Fprintln(tw, "--------\t--------------\t-----")
	for _, c := range footprint.Categories() {
		v := r.Breakdown.Value(c)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Label(), opts.mass(v), share(v, r.Total))
	}
	fmt.Fprintf(tw, "%s\t%s\t\n", "Total", opts.mass(r.Total))
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Biggest source: %s\n", r.DominantLabel)
	fmt.Fprintln(w, r.EquivalentText)

	if opts.details && len(r.Devices) > 0 {
		if err := renderDeviceShares(w, r.Devices, opts); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "HOW TO REDUCE YOUR %s FOOTPRINT\n", strings.ToUpper(r.DominantLabel))
	fmt.Fprintln(w, strings.Repeat("-", headerSeparatorLen))
	for _, tip := range r.Tips {
		writeTip(w, "", tip)
	}
	if len(r.BonusTips) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "MORE IDEAS")
		fmt.Fprintln(w, strings.Repeat("-", headerSeparatorLen))
		for _, b := range r.BonusTips {
			writeTip(w, b.Category.Label(), b.Tip)
		}
	}
	return nil
}

func renderDeviceShares(w io.Writer, shares []footprint.DeviceShare, opts renderOptions) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "DEVICES")
	fmt.Fprintln(w, strings.Repeat("-", headerSeparatorLen))

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "DEVICE\tLIFESPAN\tADJUSTED\tPRODUCTION/YEAR\tEND OF LIFE/YEAR")
	fmt.Fprintln(tw, "------\t--------\t--------\t---------------\t----------------")
	for _, s := range shares {
		fmt.Fprintf(tw, "%s\t%s y\t%s y\t%s\t%s\n",
			s.Entry.Type.Label(),
			greenops.FormatFloat(s.Entry.LifespanYears, 1),
			greenops.FormatFloat(s.AdjustedLifespan, 1),
			opts.mass(s.Production),
			opts.mass(s.EndOfLife),
		)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

// writeTip prints a tip as a bullet, its detail indented below the headline.
func writeTip(w io.Writer, category, tip string) {
	headline, detail := insight.SplitTip(tip)
	if category != "" {
		headline = "[" + category + "] " + headline
	}
	fmt.Fprintf(w, "  • %s\n", strings.TrimSpace(headline))
	if detail = strings.TrimSpace(detail); detail != "" {
		fmt.Fprintf(w, "    %s\n", detail)
	}
}

// share renders v as a percentage of total, or "-" when the total is zero.
func share(v, total float64) string {
	if total == 0 {
		return "-"
	}
	const percent = 100
	return greenops.FormatFloat(v/total*percent, 1) + "%"
}
