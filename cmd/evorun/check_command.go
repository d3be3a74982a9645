package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evorun/internal/harness"
	"evorun/internal/preflight"
	"evorun/internal/report"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the client and daemon executables without starting anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result := preflight.Run(ctx.shell(cmd), cfg)
			preflight.Render(report.New(cmd.OutOrStdout()), result)
			if failure, failed := result.Failure(); failed {
				return fmt.Errorf("%w: %s: %s", harness.ErrPreflightFailed, failure.Name, failure.Detail)
			}
			return nil
		},
	}
}
