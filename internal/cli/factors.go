package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/greendilt/digicarbon/internal/config"
	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/greenops"
)

// factorPrecision keeps the smallest factors (kg per AI query) readable.
const factorPrecision = 9

// NewFactorsCmd creates the factors command, which prints the emission
// factor tables used by the calculator.
func NewFactorsCmd() *cobra.Command {
	var (
		role   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Show the emission factor tables",
		Long: `Show the reference tables behind every calculation: activity factors per
role, AI task factors, device embodied emissions, end-of-life modifiers and
habit factors.`,
		Example: `  # Show every table
  digicarbon factors

  # Show only the activity factors of professors, as JSON
  digicarbon factors --role professor --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ft := footprint.Factors()
			if role != "" {
				r, err := footprint.ParseRole(role)
				if err != nil {
					return err
				}
				ft.Activities = map[footprint.Role][]footprint.ActivityFactor{r: r.Activities()}
			}

			if output == "" {
				output = config.GetDefaultOutputFormat()
			}
			switch output {
			case config.FormatJSON, config.FormatNDJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				if output == config.FormatJSON {
					enc.SetIndent("", "  ")
				}
				if err := enc.Encode(ft); err != nil {
					return fmt.Errorf("encoding JSON: %w", err)
				}
				return nil
			case config.FormatTable:
				return renderFactorsTable(cmd.OutOrStdout(), ft)
			default:
				return validateOutputFormat(output)
			}
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Only show the activity factors of this role (student, professor, staff)")
	cmd.Flags().StringVar(&output, "output", "", "Output format (table, json, ndjson); defaults to the configured format")

	return cmd
}

func renderFactorsTable(w io.Writer, ft footprint.FactorTable) error {
	fmt.Fprintf(w, "Emission factors (methodology %s, %d working days per year)\n",
		ft.Methodology, ft.WorkingDaysPerYear)

	for _, r := range footprint.Roles() {
		set, ok := ft.Activities[r]
		if !ok {
			continue
		}
		rows := make([][2]string, 0, len(set))
		for _, a := range set {
			rows = append(rows, [2]string{a.Label, factor(a.KgPerHour)})
		}
		if err := writeFactorSection(w, "ACTIVITIES: "+strings.ToUpper(r.Label()), "KG CO2E/HOUR", rows); err != nil {
			return err
		}
	}

	sections := []struct {
		title, unit string
		factors     []footprint.NamedFactor
	}{
		{"AI TASKS", "KG CO2E/QUERY", ft.AITasks},
		{"DEVICES", "KG CO2E EMBODIED", ft.Devices},
		{"END OF LIFE", "MODIFIER", ft.EndOfLife},
	}
	for _, s := range sections {
		rows := make([][2]string, 0, len(s.factors))
		for _, f := range s.factors {
			rows = append(rows, [2]string{f.Label, factor(f.Factor)})
		}
		if err := writeFactorSection(w, s.title, s.unit, rows); err != nil {
			return err
		}
	}

	if err := writeFactorSection(w, "HABITS", "VALUE", sortedRows(ft.Habits)); err != nil {
		return err
	}
	if err := writeFactorSection(w, "EMAILS PER DAY", "MIDPOINT", sortedRows(ft.EmailMidpoints)); err != nil {
		return err
	}
	if err := writeFactorSection(w, "CLOUD STORAGE", "MIDPOINT GB", sortedRows(ft.CloudMidpoints)); err != nil {
		return err
	}

	var lifespan [][2]string
	for _, cond := range slices.Sorted(maps.Keys(ft.LifespanMultiplier)) {
		for _, sharing := range slices.Sorted(maps.Keys(ft.LifespanMultiplier[cond])) {
			lifespan = append(lifespan, [2]string{cond + ", " + sharing, factor(ft.LifespanMultiplier[cond][sharing])})
		}
	}
	return writeFactorSection(w, "LIFESPAN MULTIPLIERS", "MULTIPLIER", lifespan)
}

func writeFactorSection(w io.Writer, title, unit string, rows [][2]string) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", headerSeparatorLen))

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "NAME\t%s\n", unit)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}
	return nil
}

func sortedRows(m map[string]float64) [][2]string {
	rows := make([][2]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		rows = append(rows, [2]string{k, factor(m[k])})
	}
	return rows
}

// factor prints a factor without trailing zeros.
func factor(v float64) string {
	s := greenops.FormatFloat(v, factorPrecision)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}
