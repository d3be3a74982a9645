package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the external executables and every file the harness touches.
type Paths struct {
	WorkDir      string `toml:"work_dir"`
	ClientBinary string `toml:"client_binary"`
	DaemonBinary string `toml:"daemon_binary"`
	ConfigFile   string `toml:"config_file"`
	SavesDir     string `toml:"saves_dir"`
	LogFile      string `toml:"log_file"`
	SummaryFile  string `toml:"summary_file"`
	StateDir     string `toml:"state_dir"`
}

// Lifecycle contains timing and remediation settings for daemon control.
type Lifecycle struct {
	ObserveSeconds int    `toml:"observe_seconds"`
	BuildHint      string `toml:"build_hint"`
}

// Inspect controls how much of each artifact source is shown after a run.
type Inspect struct {
	SnapshotSuffix string `toml:"snapshot_suffix"`
	SnapshotLimit  int    `toml:"snapshot_limit"`
	LogLines       int    `toml:"log_lines"`
}

// Logging contains configuration for harness log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History toggles the persistent run ledger.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for evorun.
//
// Configuration sections by subsystem:
//   - Paths: executables, the materialized daemon config, and artifacts
//   - Lifecycle: observation delay and build remediation hint
//   - Inspect: snapshot and log digest sizes
//   - Logging: log format and level
//   - History: run ledger toggle
type Config struct {
	Paths     Paths     `toml:"paths"`
	Lifecycle Lifecycle `toml:"lifecycle"`
	Inspect   Inspect   `toml:"inspect"`
	Logging   Logging   `toml:"logging"`
	History   History   `toml:"history"`
}

// Override mutates a decoded config before normalization. Command-line flags
// use it so their values are resolved with the same rules as file values.
type Override func(*Config)

// WithWorkDir replaces paths.work_dir when dir is non-empty.
func WithWorkDir(dir string) Override {
	return func(c *Config) {
		if strings.TrimSpace(dir) != "" {
			c.Paths.WorkDir = strings.TrimSpace(dir)
		}
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/evorun/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and resolved against the working directory.
func Load(path string, overrides ...Override) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	for _, override := range overrides {
		if override != nil {
			override(&cfg)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("evorun.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureStateDir creates the directory holding the lock, ledger, and harness log.
func (c *Config) EnsureStateDir() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// ObserveDelay is the fixed wait between the start and status requests.
func (c *Config) ObserveDelay() time.Duration {
	return time.Duration(c.Lifecycle.ObserveSeconds) * time.Second
}

// TransientFiles lists the files the harness owns and removes at teardown.
func (c *Config) TransientFiles() []string {
	return []string{c.Paths.ConfigFile, c.Paths.SummaryFile}
}

// LockPath is the single-run lock inside the state directory.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "evorun.lock")
}

// HistoryPath is the SQLite run ledger inside the state directory.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// HarnessLogPath is where the harness writes its own structured log.
func (c *Config) HarnessLogPath() string {
	return filepath.Join(c.Paths.StateDir, "evorun.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// resolveIn expands pathValue, anchoring relative paths at base instead of
// the process working directory.
func resolveIn(base, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return "", nil
	}
	if strings.HasPrefix(pathValue, "~") || filepath.IsAbs(pathValue) {
		return expandPath(pathValue)
	}
	return filepath.Join(base, filepath.Clean(pathValue)), nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
