package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"evorun/internal/config"
	"evorun/internal/logging"
	"evorun/internal/runner"
)

type commandContext struct {
	configFlag  *string
	workdirFlag *string
	verbose     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, workdirFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		workdirFlag: workdirFlag,
		verbose:     verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path, workdir string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if c.workdirFlag != nil {
			workdir = *c.workdirFlag
		}
		cfg, resolved, exists, err := config.Load(path, config.WithWorkDir(workdir))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureStateDir(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the harness logger. A logger that cannot be opened
// degrades to a no-op rather than blocking the command.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg, c.verbose != nil && *c.verbose)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) shell(cmd *cobra.Command) *runner.Shell {
	cfg, _ := c.ensureConfig()
	shell := &runner.Shell{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Logger: c.ensureLogger(),
	}
	if cfg != nil {
		shell.Dir = cfg.Paths.WorkDir
	}
	return shell
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
