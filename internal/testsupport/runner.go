package testsupport

import (
	"strings"
	"sync"

	"evorun/internal/runner"
)

// Call records one invocation seen by FakeRunner.
type Call struct {
	Command string
	Mode    runner.Mode
}

type fakeRule struct {
	suffix string
	result runner.Result
}

// FakeRunner answers commands from rules matched on the command's suffix and
// records every call. Unmatched commands succeed with empty output.
type FakeRunner struct {
	mu    sync.Mutex
	rules []fakeRule
	calls []Call
}

// NewFakeRunner returns a FakeRunner with no rules.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers result for commands ending in suffix. Earlier rules win.
func (f *FakeRunner) On(suffix string, result runner.Result) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, fakeRule{suffix: suffix, result: result})
	return f
}

// Fail registers a failing result with the given stderr for suffix.
func (f *FakeRunner) Fail(suffix, stderr string) *FakeRunner {
	return f.On(suffix, runner.Result{Stderr: stderr, ExitCode: 1})
}

// Run implements runner.Runner.
func (f *FakeRunner) Run(command string, mode runner.Mode) runner.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Command: command, Mode: mode})
	for _, rule := range f.rules {
		if strings.HasSuffix(command, rule.suffix) {
			return rule.result
		}
	}
	return runner.Result{Succeeded: true}
}

// Calls returns a copy of the recorded invocations.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Suffixes returns the last word of each recorded command, in order.
func (f *FakeRunner) Suffixes() []string {
	calls := f.Calls()
	out := make([]string, 0, len(calls))
	for _, call := range calls {
		fields := strings.Fields(call.Command)
		if len(fields) == 0 {
			out = append(out, "")
			continue
		}
		out = append(out, fields[len(fields)-1])
	}
	return out
}
