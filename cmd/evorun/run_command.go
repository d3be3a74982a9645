package main

import (
	"time"

	"github.com/spf13/cobra"

	"evorun/internal/harness"
	"evorun/internal/report"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var interactive bool
	var noPrompt bool
	var observe time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full check, start, observe, stop, and inspect flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			opts := harness.Options{
				Interactive: interactive,
				NoPrompt:    noPrompt,
				Stdin:       cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
				Logger:      ctx.ensureLogger(),
			}
			if cmd.Flags().Changed("observe") {
				opts.Observe = &observe
			}

			if _, err := harness.Run(cmd.Context(), cfg, opts); err != nil {
				return err
			}
			report.New(cmd.OutOrStdout()).OK("Run completed successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Hand the terminal to the daemon's interactive mode after the run")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Enter interactive mode without waiting for Enter")
	cmd.Flags().DurationVar(&observe, "observe", 0, "Override the wait between start and status (e.g. 10s)")
	return cmd
}
