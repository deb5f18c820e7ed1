package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/greendilt/digicarbon/internal/config"
	"github.com/greendilt/digicarbon/internal/footprint"
	"github.com/greendilt/digicarbon/internal/greenops"
	"github.com/greendilt/digicarbon/internal/insight"
	"github.com/greendilt/digicarbon/internal/logging"
)

// stdinArg is the file argument that reads the snapshot from stdin.
const stdinArg = "-"

// ExitCodeThreshold is the default exit code when --max-total is exceeded.
const ExitCodeThreshold = 2

// ThresholdExitError carries the exit code for a footprint above --max-total.
type ThresholdExitError struct {
	ExitCode int
	Reason   string
}

func (e *ThresholdExitError) Error() string {
	return e.Reason
}

// calculateFlags holds the calculate command options.
type calculateFlags struct {
	output      string
	unit        string
	stdinFormat string
	seed        uint64
	details     bool
	maxTotal    float64
	exitCode    int
}

// calculation is the result of one snapshot.
type calculation struct {
	Source string `json:"source"`
	insight.Payload
	Devices []footprint.DeviceShare `json:"devices,omitempty"`
}

// NewCalculateCmd creates the calculate command, which computes the footprint
// of one or more snapshot documents.
func NewCalculateCmd() *cobra.Command {
	var flags calculateFlags

	cmd := &cobra.Command{
		Use:   "calculate FILE...",
		Short: "Calculate the footprint of questionnaire snapshots",
		Long: `Calculate the annual CO2e footprint of one or more questionnaire snapshots.

Snapshots are JSON or YAML documents, chosen by file extension. Use "-" to read
a single snapshot from stdin. Files are evaluated concurrently and printed in
argument order.`,
		Example: `  # Calculate one snapshot
  digicarbon calculate footprint.yaml

  # Show per-device detail in tonnes
  digicarbon calculate --details --unit t footprint.json

  # Fail with exit code 2 when any footprint exceeds 500 kg
  digicarbon calculate --max-total 500 team/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalculateCmd(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.output, "output", "",
		"Output format (table, json, ndjson); defaults to the configured format")
	cmd.Flags().StringVar(&flags.unit, "unit", "",
		"Display unit ("+greenops.UnitList()+"); defaults to the configured unit")
	cmd.Flags().StringVar(&flags.stdinFormat, "stdin-format", string(footprint.FormatJSON),
		"Encoding of a snapshot read from stdin (json, yaml)")
	cmd.Flags().Uint64Var(&flags.seed, "seed", 0, "Seed for reproducible bonus tips (0 = random)")
	cmd.Flags().BoolVar(&flags.details, "details", false, "Include per-device production and end-of-life shares")
	cmd.Flags().Float64Var(&flags.maxTotal, "max-total", 0,
		"Exit with a non-zero code when a total exceeds this many kg CO2e (0 = disabled)")
	cmd.Flags().IntVar(&flags.exitCode, "exit-code", ExitCodeThreshold,
		"Exit code to use when --max-total is exceeded (1-255)")

	return cmd
}

func runCalculateCmd(cmd *cobra.Command, args []string, flags calculateFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if flags.output == "" {
		flags.output = config.GetDefaultOutputFormat()
	}
	if err := validateOutputFormat(flags.output); err != nil {
		return err
	}
	unit := config.GetGlobalConfig().Unit()
	if cmd.Flags().Changed("unit") {
		u, err := greenops.ParseUnit(flags.unit)
		if err != nil {
			return err
		}
		unit = u
	}
	stdinFormat := footprint.Format(flags.stdinFormat)
	if stdinFormat != footprint.FormatJSON && stdinFormat != footprint.FormatYAML {
		return fmt.Errorf("invalid --stdin-format %q: must be json or yaml", flags.stdinFormat)
	}
	if flags.maxTotal < 0 {
		return fmt.Errorf("--max-total must be >= 0, got %g", flags.maxTotal)
	}
	if flags.exitCode < 1 || flags.exitCode > 255 {
		return fmt.Errorf("--exit-code must be between 1 and 255, got %d", flags.exitCode)
	}
	stdinCount := 0
	for _, a := range args {
		if a == stdinArg {
			stdinCount++
		}
	}
	if stdinCount > 1 {
		return errors.New("stdin (-) can be read only once")
	}

	start := time.Now()
	results, err := calculateAll(ctx, args, flags, func(path string) (footprint.Snapshot, error) {
		if path == stdinArg {
			s, decodeErr := footprint.DecodeSnapshot(cmd.InOrStdin(), stdinFormat)
			if decodeErr != nil {
				return footprint.Snapshot{}, fmt.Errorf("stdin: %w", decodeErr)
			}
			return s, nil
		}
		return footprint.LoadSnapshot(path)
	})
	if err != nil {
		return err
	}

	log.Debug().Ctx(ctx).
		Str(logging.FieldOperation, "calculate").
		Int("snapshots", len(results)).
		Dur(logging.FieldDuration, time.Since(start)).
		Msg("snapshots calculated")

	opts := renderOptions{
		unit:      unit,
		precision: config.GetOutputPrecision(),
		details:   flags.details,
	}
	if err = renderCalculations(cmd.OutOrStdout(), flags.output, results, opts); err != nil {
		return err
	}
	return checkThreshold(results, flags)
}

// calculateAll evaluates every source concurrently, bounded by the number of
// CPUs, and returns the results in argument order. The first failure cancels
// the remaining work.
func calculateAll(
	ctx context.Context,
	sources []string,
	flags calculateFlags,
	load func(string) (footprint.Snapshot, error),
) ([]calculation, error) {
	results := make([]calculation, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			snap, err := load(src)
			if err != nil {
				return err
			}
			results[i], err = calculate(src, snap, flags)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// calculate computes one snapshot. A seeded run gives every snapshot its own
// generator so that its tips do not depend on scheduling.
func calculate(src string, snap footprint.Snapshot, flags calculateFlags) (calculation, error) {
	gen := insight.NewGenerator(nil)
	if flags.seed != 0 {
		gen = insight.NewSeededGenerator(flags.seed)
	}
	c := calculation{
		Source:  src,
		Payload: gen.Generate(snap.Breakdown()),
	}
	if err := c.Equivalences.Check(); err != nil {
		return calculation{}, fmt.Errorf("%s: %w", src, err)
	}
	if flags.details {
		c.Devices = footprint.ComputeDeviceShares(snap.Devices)
	}
	return c, nil
}

// checkThreshold returns a ThresholdExitError naming the first result whose
// total exceeds --max-total.
func checkThreshold(results []calculation, flags calculateFlags) error {
	if flags.maxTotal <= 0 {
		return nil
	}
	for _, r := range results {
		if r.Total > flags.maxTotal {
			return &ThresholdExitError{
				ExitCode: flags.exitCode,
				Reason: fmt.Sprintf("%s: footprint %s exceeds the limit of %s", r.Source,
					greenops.FormatMass(r.Total, greenops.UnitKilograms, config.DefaultPrecision),
					greenops.FormatMass(flags.maxTotal, greenops.UnitKilograms, config.DefaultPrecision)),
			}
		}
	}
	return nil
}

func validateOutputFormat(format string) error {
	switch format {
	case config.FormatTable, config.FormatJSON, config.FormatNDJSON:
		return nil
	default:
		return fmt.Errorf("invalid output format %q: must be table, json, or ndjson", format)
	}
}
