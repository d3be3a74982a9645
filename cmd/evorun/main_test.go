package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"evorun/internal/harness"
	"evorun/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	workDir    string
	stateDir   string
	configPath string
	clientPath string
}

func setupCLITestEnv(t *testing.T, failing ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))

	env := &cliTestEnv{
		baseDir:    base,
		workDir:    filepath.Join(base, "work"),
		stateDir:   filepath.Join(base, "state"),
		configPath: filepath.Join(base, "evorun.toml"),
	}
	env.clientPath = filepath.Join(env.workDir, "build", "bin", "evosim")

	testsupport.WriteStub(t, env.clientPath, testsupport.ClientScript(failing...))
	testsupport.WriteStub(t, filepath.Join(env.workDir, "build", "bin", "evosimd"), "#!/bin/sh\nexit 0\n")
	testsupport.WriteFile(t, env.configPath, fmt.Sprintf(`[paths]
work_dir = %q
state_dir = %q

[lifecycle]
observe_seconds = 0

[history]
enabled = true
`, env.workDir, env.stateDir))
	return env
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRunCommandSucceeds(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteLines(t, filepath.Join(env.workDir, "evosim.log"), 3)

	out, err := env.run(t, "run")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	assertContains(t, out,
		"[OK] Evolution started successfully",
		"[INFO] No saved snapshots found",
		"  line 3",
		"[OK] Cleanup completed",
		"[OK] Run completed successfully",
	)
	if _, err := os.Stat(filepath.Join(env.workDir, "example_config.yaml")); !os.IsNotExist(err) {
		t.Fatalf("materialized config should be removed, stat err=%v", err)
	}
	if got := testsupport.ReadCalls(t, env.clientPath); !reflect.DeepEqual(got, []string{"--version", "start", "status", "stop"}) {
		t.Fatalf("unexpected client calls: %v", got)
	}
	if _, err := os.Stat(filepath.Join(env.stateDir, "evorun.log")); err != nil {
		t.Fatalf("expected harness log in state dir: %v", err)
	}
}

func TestRunCommandStartFailure(t *testing.T) {
	env := setupCLITestEnv(t, "start")

	out, err := env.run(t, "run")
	if !errors.Is(err, harness.ErrStartFailed) {
		t.Fatalf("expected ErrStartFailed, got %v\n%s", err, out)
	}
	assertContains(t, out, "[FAIL] Failed to start evolution: start failed", "[OK] Cleanup completed")
	if strings.Contains(out, "Run completed successfully") {
		t.Fatalf("failed run must not report success:\n%s", out)
	}
}

func TestCheckCommandMissingBinaries(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(filepath.Join(env.workDir, "build")); err != nil {
		t.Fatalf("remove build dir: %v", err)
	}

	out, err := env.run(t, "check")
	if !errors.Is(err, harness.ErrPreflightFailed) {
		t.Fatalf("expected ErrPreflightFailed, got %v", err)
	}
	assertContains(t, out, "[FAIL] Client executable:", "build the project first")
}

func TestCheckCommandPasses(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	assertContains(t, out, "[OK] Client executable:", "[OK] Daemon executable:", "[OK] Client version: EvoSim 0.1.0")
}

func TestInspectCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	for _, name := range []string{"a.evo", "b.evo", "c.evo", "d.evo"} {
		testsupport.WriteFile(t, filepath.Join(env.workDir, "saves", name), "x")
	}
	testsupport.WriteFile(t, filepath.Join(env.workDir, "results.json"), `{"statistics":{"total_generations":40}}`)

	out, err := env.run(t, "inspect")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	assertContains(t, out, "[OK] Found 4 saved snapshots:", "  - b.evo", "  - d.evo", "  Generations: 40", "  Best Fitness: N/A")
	if strings.Contains(out, "  - a.evo") {
		t.Fatalf("only the last three snapshots should be listed:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(env.workDir, "results.json")); err != nil {
		t.Fatalf("inspect must not remove anything: %v", err)
	}
}

func TestDaemonCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "daemon", "status")
	if err != nil {
		t.Fatalf("daemon status: %v", err)
	}
	assertContains(t, out, "[OK] Status succeeded", "  State: running")

	if _, err := env.run(t, "daemon", "start"); err != nil {
		t.Fatalf("daemon start: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.workDir, "example_config.yaml")); !os.IsNotExist(err) {
		t.Fatalf("config written for start should be removed, stat err=%v", err)
	}
	if got := testsupport.ReadCalls(t, env.clientPath); !reflect.DeepEqual(got, []string{"status", "start"}) {
		t.Fatalf("unexpected client calls: %v", got)
	}
}

func TestDaemonCommandFailures(t *testing.T) {
	env := setupCLITestEnv(t, "pause")

	if _, err := env.run(t, "daemon", "export"); err == nil {
		t.Fatal("expected unknown subcommand error")
	}
	out, err := env.run(t, "daemon", "pause")
	if err == nil {
		t.Fatal("expected failed pause to return an error")
	}
	assertContains(t, out, "[FAIL] Pause failed: pause failed")
}

func TestHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	assertContains(t, out, "No runs recorded")

	if _, err := env.run(t, "run"); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err = env.run(t, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	assertContains(t, out, "Outcome", "ok", "stopped")
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "generated", "evorun.toml")

	out, err := env.run(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	assertContains(t, out, "Wrote sample configuration to "+target)
	if _, err := env.run(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite without --overwrite")
	}
	if _, err := env.run(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, err = env.run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	assertContains(t, out, "exists: yes", env.workDir, "observe_seconds = 0")

	out, err = env.run(t, "config", "show", "--sample")
	if err != nil {
		t.Fatalf("config show --sample: %v", err)
	}
	assertContains(t, out, "[paths]", `client_binary = "./build/bin/evosim"`, "snapshot_limit = 3")

	other := filepath.Join(env.baseDir, "elsewhere")
	out, err = env.run(t, "--workdir", other, "config", "show")
	if err != nil {
		t.Fatalf("config show --workdir: %v", err)
	}
	assertContains(t, out, filepath.Join(other, "build", "bin", "evosim"))
}
