package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLifecycle(); err != nil {
		return err
	}
	if err := c.validateInspect(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	required := []struct {
		name  string
		value string
	}{
		{"paths.client_binary", c.Paths.ClientBinary},
		{"paths.daemon_binary", c.Paths.DaemonBinary},
		{"paths.config_file", c.Paths.ConfigFile},
		{"paths.saves_dir", c.Paths.SavesDir},
		{"paths.log_file", c.Paths.LogFile},
		{"paths.summary_file", c.Paths.SummaryFile},
	}
	for _, field := range required {
		if field.value == "" {
			return fmt.Errorf("%s must be set", field.name)
		}
	}
	if c.Paths.ConfigFile == c.Paths.SummaryFile {
		return errors.New("paths.config_file and paths.summary_file must differ")
	}
	// Both transient files are deleted at teardown; neither may alias a daemon artifact.
	for _, transient := range c.TransientFiles() {
		if transient == c.Paths.LogFile || transient == c.Paths.SavesDir {
			return fmt.Errorf("transient file %q overlaps a daemon artifact path", transient)
		}
	}
	return nil
}

func (c *Config) validateLifecycle() error {
	if c.Lifecycle.ObserveSeconds < 0 {
		return errors.New("lifecycle.observe_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateInspect() error {
	if c.Inspect.SnapshotSuffix == "" {
		return errors.New("inspect.snapshot_suffix must be set")
	}
	if c.Inspect.SnapshotLimit <= 0 {
		return errors.New("inspect.snapshot_limit must be positive")
	}
	if c.Inspect.LogLines <= 0 {
		return errors.New("inspect.log_lines must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
