package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"evorun/internal/artifacts"
	"evorun/internal/cleanup"
	"evorun/internal/config"
	"evorun/internal/daemonctl"
	"evorun/internal/history"
	"evorun/internal/logging"
	"evorun/internal/preflight"
	"evorun/internal/report"
	"evorun/internal/runner"
	"evorun/internal/simconfig"
)

var (
	// ErrPreflightFailed means a required executable is missing or unusable.
	ErrPreflightFailed = errors.New("preflight failed")
	// ErrStartFailed means the daemon rejected the start request.
	ErrStartFailed = daemonctl.ErrStartFailed
	// ErrRunLocked means another run holds the state directory.
	ErrRunLocked = errors.New("another evorun run is in progress")
)

// Options tunes a single run.
type Options struct {
	// Interactive hands the terminal to the daemon's command loop after the
	// simple sequence.
	Interactive bool
	// NoPrompt skips the "Press Enter" pause before the interactive session.
	NoPrompt bool
	// Observe overrides lifecycle.observe_seconds when non-nil.
	Observe *time.Duration

	Stdin  io.Reader
	Out    io.Writer
	Logger *slog.Logger

	// Runner defaults to a Shell rooted at paths.work_dir.
	Runner runner.Runner
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
	// Document defaults to simconfig.Default().
	Document *simconfig.Document
}

// Summary is everything a run observed.
type Summary struct {
	RunID       string
	Preflight   preflight.Report
	Lifecycle   daemonctl.Outcome
	Interactive *runner.Result
	Artifacts   artifacts.Report
	Removals    []cleanup.Removal
}

// Run executes the full flow against cfg.
func Run(ctx context.Context, cfg *config.Config, opts Options) (summary Summary, err error) {
	if cfg == nil {
		return summary, errors.New("harness requires a config")
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	summary.RunID = uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "harness").With(logging.String(logging.FieldRunID, summary.RunID))
	rep := report.New(opts.Out)
	transient := cleanup.New(cfg.TransientFiles()...)

	if err := cfg.EnsureStateDir(); err != nil {
		summary.Removals = release(rep, logger, transient)
		return summary, err
	}

	// A held lock means another run owns the transient files; leave them.
	lock := flock.New(cfg.LockPath())
	ok, lockErr := lock.TryLock()
	if lockErr != nil {
		return summary, fmt.Errorf("acquire run lock: %w", lockErr)
	}
	if !ok {
		return summary, fmt.Errorf("%w (lock %s)", ErrRunLocked, cfg.LockPath())
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	r := opts.Runner
	if r == nil {
		r = &runner.Shell{Dir: cfg.Paths.WorkDir, Stdin: opts.Stdin, Stdout: opts.Out, Logger: logger}
	}

	record := history.Run{
		ID:         summary.RunID,
		StartedAt:  time.Now(),
		FinalState: string(daemonctl.StateNotStarted),
		Outcome:    history.OutcomeError,
	}

	defer func() {
		summary.Removals = release(rep, logger, transient)

		record.FinishedAt = time.Now()
		record.Outcome, record.Detail = classify(err)
		if record.Detail == "" && cleanup.Failed(summary.Removals) {
			record.Detail = "transient files left behind"
		}
		if recovered := recover(); recovered != nil {
			record.Outcome = history.OutcomeError
			record.Detail = fmt.Sprintf("panic: %v", recovered)
			recordHistory(ctx, cfg, logger, record)
			panic(recovered)
		}
		recordHistory(ctx, cfg, logger, record)
		logger.Info("run finished",
			logging.String("outcome", record.Outcome),
			logging.String("final_state", record.FinalState),
			logging.Duration("elapsed", record.Duration()),
		)
	}()

	logger.Info("run started", logging.String("work_dir", cfg.Paths.WorkDir))
	rep.Info("Run %s in %s", summary.RunID, cfg.Paths.WorkDir)

	rep.Section("Preflight")
	summary.Preflight = preflight.Run(r, cfg)
	preflight.Render(rep, summary.Preflight)
	if !summary.Preflight.Passed() {
		failure, _ := summary.Preflight.Failure()
		logging.WarnWithContext(logger, "preflight failed", "preflight_failed", failure.Hint,
			logging.String("check", failure.Name),
			logging.String("detail", failure.Detail),
		)
		return summary, fmt.Errorf("%w: %s: %s", ErrPreflightFailed, failure.Name, failure.Detail)
	}
	record.PreflightPassed = true

	rep.Section("Configuration")
	doc := simconfig.Default()
	if opts.Document != nil {
		doc = *opts.Document
	}
	if err := simconfig.Write(cfg.Paths.ConfigFile, doc); err != nil {
		rep.Fail("Failed to create configuration: %v", err)
		return summary, fmt.Errorf("materialize daemon config: %w", err)
	}
	record.ConfigWritten = true
	rep.OK("Created configuration file: %s", cfg.Paths.ConfigFile)
	logger.Info("daemon config written", logging.String("path", cfg.Paths.ConfigFile))

	rep.Section("Simulation")
	delay := cfg.ObserveDelay()
	if opts.Observe != nil {
		delay = *opts.Observe
	}
	ctl := daemonctl.New(r, daemonctl.Options{
		ClientPath:   cfg.Paths.ClientBinary,
		ConfigPath:   cfg.Paths.ConfigFile,
		ObserveDelay: delay,
		Sleep:        opts.Sleep,
		Reporter:     rep,
		Logger:       logger,
	})
	outcome, seqErr := ctl.RunSequence()
	summary.Lifecycle = outcome
	applyOutcome(&record, outcome)
	if seqErr != nil {
		return summary, seqErr
	}

	if opts.Interactive {
		rep.Section("Interactive")
		rep.Info("Entering the daemon's interactive mode (start, status, stats, pause, resume, stop, exit)")
		if !opts.NoPrompt {
			rep.Info("Press Enter to continue...")
			waitForEnter(opts.Stdin)
		}
		res := ctl.Interactive()
		summary.Interactive = &res
		record.Interactive = true
	}

	summary.Artifacts = artifacts.Inspect(cfg)
	artifacts.LogErrors(logger, summary.Artifacts)
	artifacts.Render(rep, summary.Artifacts)
	record.SnapshotCount = summary.Artifacts.Snapshots.Total

	return summary, nil
}

func release(rep *report.Reporter, logger *slog.Logger, transient *cleanup.Set) []cleanup.Removal {
	removals := transient.Release()
	cleanup.Render(rep, logger, removals)
	if cleanup.Failed(removals) {
		rep.Warn("Some transient files were left behind; remove them before the next run")
	}
	return removals
}

func applyOutcome(record *history.Run, outcome daemonctl.Outcome) {
	record.FinalState = string(outcome.State)
	if res, ok := outcome.Step(string(daemonctl.SubStart)); ok {
		record.DaemonStarted = res.Succeeded
	}
	if res, ok := outcome.Step(string(daemonctl.SubStatus)); ok {
		record.StatusOK = res.Succeeded
	}
	if res, ok := outcome.Step(string(daemonctl.SubStop)); ok {
		record.StopOK = res.Succeeded
	}
}

func classify(err error) (string, string) {
	switch {
	case err == nil:
		return history.OutcomeOK, ""
	case errors.Is(err, ErrPreflightFailed):
		return history.OutcomePreflightFailed, err.Error()
	case errors.Is(err, ErrStartFailed):
		return history.OutcomeStartFailed, err.Error()
	default:
		return history.OutcomeError, err.Error()
	}
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, run history.Run) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			"delete the history database if it is corrupt",
			logging.String("path", cfg.HistoryPath()),
			logging.Error(err),
		)
		return
	}
	defer store.Close()

	if err := store.Record(context.WithoutCancel(ctx), run); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			"check free space in the state directory",
			logging.Error(err),
		)
	}
}

// waitForEnter consumes input up to and including the first newline, one
// byte at a time so nothing meant for the interactive session is buffered
// away.
func waitForEnter(in io.Reader) {
	if in == nil {
		in = os.Stdin
	}
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 && buf[0] == '\n' {
			return
		}
		if err != nil {
			return
		}
	}
}
