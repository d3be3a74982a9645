package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"evorun/internal/cleanup"
	"evorun/internal/daemonctl"
	"evorun/internal/report"
	"evorun/internal/simconfig"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	valid := make([]string, 0, len(daemonctl.Subcommands))
	for _, sub := range daemonctl.Subcommands {
		valid = append(valid, string(sub))
	}

	return &cobra.Command{
		Use:       "daemon <" + strings.Join(valid, "|") + ">",
		Short:     "Send a single request to the simulation daemon",
		Args:      cobra.ExactArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := daemonctl.ParseSubcommand(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rep := report.New(cmd.OutOrStdout())

			// The daemon reads its configuration once, at start; the file is
			// transient and goes away as soon as the request returns.
			if sub == daemonctl.SubStart {
				transient := cleanup.New(cfg.Paths.ConfigFile)
				defer func() {
					cleanup.Render(report.Discard(), ctx.ensureLogger(), transient.Release())
				}()
				if err := simconfig.Write(cfg.Paths.ConfigFile, simconfig.Default()); err != nil {
					return fmt.Errorf("materialize daemon config: %w", err)
				}
			}

			ctl := daemonctl.New(ctx.shell(cmd), daemonctl.Options{
				ClientPath: cfg.Paths.ClientBinary,
				ConfigPath: cfg.Paths.ConfigFile,
				Reporter:   rep,
				Logger:     ctx.ensureLogger(),
			})
			if res := ctl.Invoke(sub); !res.Succeeded {
				return fmt.Errorf("daemon %s failed (exit code %d)", sub, res.ExitCode)
			}
			return nil
		},
	}
}
