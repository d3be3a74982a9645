package preflight

import (
	"strings"

	"evorun/internal/config"
	"evorun/internal/deps"
	"evorun/internal/runner"
)

// Check names, in evaluation order.
const (
	CheckClient  = "Client executable"
	CheckDaemon  = "Daemon executable"
	CheckVersion = "Client version"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

// Report holds the checks that were actually attempted, in order.
type Report struct {
	Results []Result
}

// Passed reports whether every check ran and passed.
func (r Report) Passed() bool {
	if len(r.Results) != 3 {
		return false
	}
	for _, result := range r.Results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// Failure returns the check that stopped the sequence, if any.
func (r Report) Failure() (Result, bool) {
	for _, result := range r.Results {
		if !result.Passed {
			return result, true
		}
	}
	return Result{}, false
}

// Version returns the client's reported version when the query succeeded.
func (r Report) Version() string {
	for _, result := range r.Results {
		if result.Name == CheckVersion && result.Passed {
			return result.Detail
		}
	}
	return ""
}

// Run executes the checks in order and short-circuits on the first failure.
func Run(r runner.Runner, cfg *config.Config) Report {
	var outcome Report
	if cfg == nil {
		outcome.Results = append(outcome.Results, Result{Name: CheckClient, Detail: "configuration not available"})
		return outcome
	}
	hint := buildHint(cfg)

	for _, req := range []deps.Requirement{
		{Name: CheckClient, Path: cfg.Paths.ClientBinary, Description: "simulation client", Hint: hint},
		{Name: CheckDaemon, Path: cfg.Paths.DaemonBinary, Description: "simulation daemon", Hint: hint},
	} {
		status := deps.Check(req)
		result := Result{Name: req.Name, Passed: status.Available, Detail: status.Path}
		if !status.Available {
			result.Detail = status.Detail
			result.Hint = status.Hint
		}
		outcome.Results = append(outcome.Results, result)
		if !result.Passed {
			return outcome
		}
	}

	outcome.Results = append(outcome.Results, CheckClientVersion(r, cfg.Paths.ClientBinary, hint))
	return outcome
}

// CheckClientVersion asks the client for its version string.
func CheckClientVersion(r runner.Runner, clientPath, hint string) Result {
	res := r.Run(runner.Command(clientPath, "--version"), runner.ModeCapture)
	if !res.Succeeded {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = "version query failed"
		}
		return Result{Name: CheckVersion, Detail: detail, Hint: hint}
	}
	version := strings.TrimSpace(res.Stdout)
	if version == "" {
		version = "version query succeeded"
	}
	return Result{Name: CheckVersion, Passed: true, Detail: version}
}

func buildHint(cfg *config.Config) string {
	return "build the project first: " + cfg.Lifecycle.BuildHint
}
