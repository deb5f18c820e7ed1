package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/greendilt/digicarbon/internal/config"
	"github.com/greendilt/digicarbon/internal/insight"
	"github.com/greendilt/digicarbon/internal/logging"
	"github.com/greendilt/digicarbon/internal/session"
	"github.com/greendilt/digicarbon/internal/tui"
)

// ErrNotTerminal is returned when interactive mode runs without a terminal.
var ErrNotTerminal = errors.New("interactive mode requires a terminal; use 'digicarbon calculate' for files")

// NewInteractiveCmd creates the interactive command, which runs the
// questionnaire in the terminal.
func NewInteractiveCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Fill in the questionnaire in the terminal",
		Long: `Fill in the questionnaire in the terminal: pick a role, describe your
devices, daily activities, habits and AI usage, then read your annual
footprint with tips to reduce it.`,
		Example: `  # Start the questionnaire
  digicarbon interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return ErrNotTerminal
			}

			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()

			gen := insight.NewGenerator(nil)
			if seed != 0 {
				gen = insight.NewSeededGenerator(seed)
			}
			ctrl := session.NewController(cfg.SessionDefaults(), gen)
			model := tui.NewModel(ctx, ctrl, tui.Options{
				Unit:      cfg.Unit(),
				Precision: cfg.Output.Precision,
			})

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("failed to run interactive TUI: %w", err)
			}

			logging.FromContext(ctx).Debug().Ctx(ctx).
				Str(logging.FieldOperation, "interactive").
				Stringer("final_state", ctrl.State()).
				Msg("questionnaire closed")
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible bonus tips (0 = random)")

	return cmd
}
