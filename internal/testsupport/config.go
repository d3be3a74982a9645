package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"evorun/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp work directory with its
// own state directory, no observe delay, and the history ledger disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	work := filepath.Join(base, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}

	cfg, _, _, err := config.Load(filepath.Join(base, "absent.toml"), func(c *config.Config) {
		c.Paths.WorkDir = work
		c.Paths.StateDir = filepath.Join(base, "state")
		c.Lifecycle.ObserveSeconds = 0
		c.History.Enabled = false
	})
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     cfg,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStubbedBinaries installs a scripted client and a no-op daemon at the
// configured executable paths. Subcommands named in failing exit 1 and print
// "<subcommand> failed" on stderr.
func WithStubbedBinaries(failing ...string) ConfigOption {
	return func(b *configBuilder) {
		WriteStub(b.t, b.cfg.Paths.ClientBinary, ClientScript(failing...))
		WriteStub(b.t, b.cfg.Paths.DaemonBinary, "#!/bin/sh\nexit 0\n")
	}
}

// WithHistory enables the run ledger inside the config's state directory.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = true
	}
}
