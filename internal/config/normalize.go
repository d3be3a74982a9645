package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLifecycle()
	c.normalizeInspect()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}

	work := c.Paths.WorkDir
	fields := []struct {
		name  string
		value *string
	}{
		{"paths.client_binary", &c.Paths.ClientBinary},
		{"paths.daemon_binary", &c.Paths.DaemonBinary},
		{"paths.config_file", &c.Paths.ConfigFile},
		{"paths.saves_dir", &c.Paths.SavesDir},
		{"paths.log_file", &c.Paths.LogFile},
		{"paths.summary_file", &c.Paths.SummaryFile},
		{"paths.state_dir", &c.Paths.StateDir},
	}
	for _, field := range fields {
		if *field.value, err = resolveIn(work, *field.value); err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
	}
	return nil
}

func (c *Config) normalizeLifecycle() {
	c.Lifecycle.BuildHint = strings.TrimSpace(c.Lifecycle.BuildHint)
	if c.Lifecycle.BuildHint == "" {
		c.Lifecycle.BuildHint = defaultBuildHint
	}
}

func (c *Config) normalizeInspect() {
	suffix := strings.TrimSpace(c.Inspect.SnapshotSuffix)
	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	c.Inspect.SnapshotSuffix = suffix
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
