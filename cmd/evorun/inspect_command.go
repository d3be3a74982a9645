package main

import (
	"github.com/spf13/cobra"

	"evorun/internal/artifacts"
	"evorun/internal/report"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Summarize saved snapshots, the daemon log, and any exported summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			result := artifacts.Inspect(cfg)
			artifacts.LogErrors(ctx.ensureLogger(), result)
			artifacts.Render(report.New(cmd.OutOrStdout()), result)
			return nil
		},
	}
}
