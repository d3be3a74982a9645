package daemonctl

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"evorun/internal/logging"
	"evorun/internal/report"
	"evorun/internal/runner"
)

// State is the controller's view of the run, independent of the daemon's
// own internal state.
type State string

const (
	StateNotStarted  State = "not_started"
	StateStarted     State = "started"
	StateObserved    State = "observed"
	StateStopped     State = "stopped"
	StateInteractive State = "interactive"
)

// Subcommand is a daemon-native request understood by the client.
type Subcommand string

const (
	SubStart  Subcommand = "start"
	SubStatus Subcommand = "status"
	SubStats  Subcommand = "stats"
	SubPause  Subcommand = "pause"
	SubResume Subcommand = "resume"
	SubStop   Subcommand = "stop"
)

// Subcommands lists every passthrough request in display order.
var Subcommands = []Subcommand{SubStart, SubStatus, SubStats, SubPause, SubResume, SubStop}

// ParseSubcommand validates a user-supplied subcommand name.
func ParseSubcommand(name string) (Subcommand, error) {
	trimmed := Subcommand(strings.ToLower(strings.TrimSpace(name)))
	for _, sub := range Subcommands {
		if sub == trimmed {
			return sub, nil
		}
	}
	return "", fmt.Errorf("unknown daemon subcommand %q", name)
}

// ErrStartFailed is returned when the daemon rejects or cannot run "start".
// It is the only lifecycle failure that aborts a run.
var ErrStartFailed = errors.New("daemon start failed")

// Options configures a Controller.
type Options struct {
	ClientPath   string
	ConfigPath   string
	ObserveDelay time.Duration
	// Sleep implements the observe delay; nil uses time.Sleep.
	Sleep    func(time.Duration)
	Reporter *report.Reporter
	Logger   *slog.Logger
}

// Step records one request/response exchange with the daemon.
type Step struct {
	Name   string
	Result runner.Result
}

// Outcome summarizes a start/observe/stop sequence.
type Outcome struct {
	State State
	Steps []Step
}

// Step returns the named step's result, if it ran.
func (o Outcome) Step(name string) (runner.Result, bool) {
	for _, step := range o.Steps {
		if step.Name == name {
			return step.Result, true
		}
	}
	return runner.Result{}, false
}

// Controller sequences daemon requests through a Runner. It owns no daemon
// state: every transition is decided from the request's Result alone.
type Controller struct {
	runner runner.Runner
	opts   Options
	logger *slog.Logger
	rep    *report.Reporter

	state   State
	started bool
	steps   []Step
}

// New constructs a Controller in StateNotStarted.
func New(r runner.Runner, opts Options) *Controller {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	rep := opts.Reporter
	if rep == nil {
		rep = report.Discard()
	}
	return &Controller{
		runner: r,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "lifecycle"),
		rep:    rep,
		state:  StateNotStarted,
	}
}

// State returns the current controller state.
func (c *Controller) State() State {
	return c.state
}

// Outcome returns the state and steps recorded so far.
func (c *Controller) Outcome() Outcome {
	return Outcome{State: c.state, Steps: append([]Step(nil), c.steps...)}
}

// RunSequence drives start, observe, and stop. Only a failed start is
// returned as an error; status and stop failures are reported and recorded.
func (c *Controller) RunSequence() (Outcome, error) {
	if err := c.Start(); err != nil {
		return c.Outcome(), err
	}
	c.Observe()
	c.Stop()
	return c.Outcome(), nil
}

// Start asks the daemon to begin a simulation with the materialized config.
func (c *Controller) Start() error {
	c.rep.Info("Starting evolution simulation...")
	res := c.request(string(SubStart), c.args(string(SubStart)), runner.ModeCapture)
	if !res.Succeeded {
		detail := diagnostic(res)
		c.rep.Fail("Failed to start evolution: %s", detail)
		logging.WarnWithContext(c.logger, "daemon start failed", "daemon_start_failed",
			"check the daemon log and the materialized config",
			logging.Int("exit_code", res.ExitCode),
			logging.String("stderr", detail),
		)
		return fmt.Errorf("%w: %s", ErrStartFailed, detail)
	}
	c.started = true
	c.state = StateStarted
	c.rep.OK("Evolution started successfully")
	return nil
}

// Observe waits the fixed observe delay and then queries status. A failed
// status is reported but never blocks the stop that follows.
func (c *Controller) Observe() runner.Result {
	if delay := c.opts.ObserveDelay; delay > 0 {
		c.rep.Info("Letting the simulation run for %s...", delay)
		c.opts.Sleep(delay)
	}
	res := c.request(string(SubStatus), c.args(string(SubStatus)), runner.ModeCapture)
	if res.Succeeded {
		c.rep.OK("Current status:")
		c.rep.Block(res.Stdout)
	} else {
		c.rep.Fail("Failed to get status: %s", diagnostic(res))
	}
	if c.started {
		c.state = StateObserved
	}
	return res
}

// Stop requests a graceful stop. It is attempted once, with no retry; a
// failure is surfaced but the daemon's own recovery is not the harness's
// concern.
func (c *Controller) Stop() runner.Result {
	res := c.request(string(SubStop), c.args(string(SubStop)), runner.ModeCapture)
	if res.Succeeded {
		c.rep.OK("Evolution stopped successfully")
	} else {
		c.rep.Fail("Failed to stop evolution: %s", diagnostic(res))
	}
	c.state = StateStopped
	return res
}

// Interactive hands the operator's terminal to the daemon's own command loop
// and returns when that process exits. The result is reported, not
// interpreted.
func (c *Controller) Interactive() runner.Result {
	prev := c.state
	c.state = StateInteractive
	res := c.request("interactive", c.args("--interactive"), runner.ModePassthrough)
	if res.Succeeded {
		c.rep.OK("Interactive session ended")
	} else {
		c.rep.Fail("Interactive mode failed: %s", diagnostic(res))
	}
	c.state = prev
	return res
}

// Invoke sends a single daemon-native subcommand and reports its output.
func (c *Controller) Invoke(sub Subcommand) runner.Result {
	res := c.request(string(sub), c.args(string(sub)), runner.ModeCapture)
	label := report.Title(string(sub))
	if res.Succeeded {
		c.rep.OK("%s succeeded", label)
		c.rep.Block(res.Stdout)
	} else {
		c.rep.Fail("%s failed: %s", label, diagnostic(res))
	}
	return res
}

func (c *Controller) args(tail string) []string {
	return []string{"--config", c.opts.ConfigPath, tail}
}

func (c *Controller) request(step string, args []string, mode runner.Mode) runner.Result {
	command := runner.Command(c.opts.ClientPath, args...)
	c.logger.Debug("daemon request", logging.String(logging.FieldStep, step), logging.String("command", command))
	res := c.runner.Run(command, mode)
	c.steps = append(c.steps, Step{Name: step, Result: res})
	c.logger.Info("daemon response",
		logging.String(logging.FieldStep, step),
		logging.Bool("succeeded", res.Succeeded),
		logging.Int("exit_code", res.ExitCode),
	)
	return res
}

func diagnostic(res runner.Result) string {
	if detail := strings.TrimSpace(res.Stderr); detail != "" {
		return detail
	}
	if detail := strings.TrimSpace(res.Stdout); detail != "" {
		return detail
	}
	return fmt.Sprintf("exit code %d", res.ExitCode)
}
