package artifacts

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"evorun/internal/report"
	"evorun/internal/testsupport"
)

func TestProbeSnapshotsKeepsLexicallyLast(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"d.evo", "a.evo", "c.evo", "b.evo", "notes.txt"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), "x")
	}
	if err := os.Mkdir(filepath.Join(dir, "z.evo"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	probe := ProbeSnapshots(dir, ".evo", 3)
	if probe.Err != nil {
		t.Fatalf("unexpected error: %v", probe.Err)
	}
	if !probe.Found || probe.Total != 4 {
		t.Fatalf("unexpected probe: %#v", probe)
	}
	if !reflect.DeepEqual(probe.Recent, []string{"b.evo", "c.evo", "d.evo"}) {
		t.Fatalf("unexpected recent snapshots: %v", probe.Recent)
	}
}

func TestProbeSnapshotsFewerThanLimit(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(dir, "gen_0050.evo"), "x")

	probe := ProbeSnapshots(dir, ".evo", 3)
	if !reflect.DeepEqual(probe.Recent, []string{"gen_0050.evo"}) {
		t.Fatalf("unexpected recent snapshots: %v", probe.Recent)
	}
}

func TestProbeSnapshotsMissingDirectory(t *testing.T) {
	probe := ProbeSnapshots(filepath.Join(t.TempDir(), "saves"), ".evo", 3)
	if probe.Found || probe.Err != nil || probe.Total != 0 {
		t.Fatalf("missing directory must be a quiet absence: %#v", probe)
	}
}

func TestProbeLogReturnsLastLinesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evosim.log")
	testsupport.WriteLines(t, path, 8)

	probe := ProbeLog(path, 5)
	if probe.Err != nil || !probe.Found {
		t.Fatalf("unexpected probe: %#v", probe)
	}
	want := []string{"line 4", "line 5", "line 6", "line 7", "line 8"}
	if !reflect.DeepEqual(probe.Lines, want) {
		t.Fatalf("got %v want %v", probe.Lines, want)
	}
}

func TestProbeLogShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evosim.log")
	testsupport.WriteLines(t, path, 3)

	probe := ProbeLog(path, 5)
	if !reflect.DeepEqual(probe.Lines, []string{"line 1", "line 2", "line 3"}) {
		t.Fatalf("unexpected lines: %v", probe.Lines)
	}
}

func TestProbeLogMissingAndDirectory(t *testing.T) {
	dir := t.TempDir()
	if probe := ProbeLog(filepath.Join(dir, "absent.log"), 5); probe.Found || probe.Err != nil {
		t.Fatalf("missing log must be a quiet absence: %#v", probe)
	}
	if probe := ProbeLog(dir, 5); probe.Err == nil {
		t.Fatal("expected error for directory log path")
	}
}

func TestProbeSummaryExtractsStatistics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	testsupport.WriteFile(t, path, `{"statistics":{"total_generations":120,"best_fitness":0.8125,"current_population":"187"}}`)

	probe := ProbeSummary(path)
	if probe.Err != nil || !probe.Found || !probe.HasStatistics {
		t.Fatalf("unexpected probe: %#v", probe)
	}
	if probe.TotalGenerations != "120" || probe.BestFitness != "0.8125" || probe.CurrentPopulation != "187" {
		t.Fatalf("unexpected statistics: %#v", probe)
	}
}

func TestProbeSummaryWithoutStatistics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	testsupport.WriteFile(t, path, `{"population":[]}`)

	probe := ProbeSummary(path)
	if probe.Err != nil {
		t.Fatalf("missing statistics is not an error: %v", probe.Err)
	}
	for _, value := range []string{probe.TotalGenerations, probe.BestFitness, probe.CurrentPopulation} {
		if value != NotAvailable {
			t.Fatalf("expected %s, got %#v", NotAvailable, probe)
		}
	}
}

func TestProbeSummaryPartialStatistics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	testsupport.WriteFile(t, path, `{"statistics":{"best_fitness":1.5}}`)

	probe := ProbeSummary(path)
	if probe.BestFitness != "1.5" || probe.TotalGenerations != NotAvailable || probe.CurrentPopulation != NotAvailable {
		t.Fatalf("unexpected statistics: %#v", probe)
	}
}

func TestProbeSummaryParseFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	testsupport.WriteFile(t, path, `{not json`)

	probe := ProbeSummary(path)
	if probe.Err == nil || !probe.Found {
		t.Fatalf("expected parse error: %#v", probe)
	}
}

func TestInspectSourcesAreIndependent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.LogFile, 3)
	testsupport.WriteFile(t, cfg.Paths.SummaryFile, `[broken`)

	r := Inspect(cfg)
	if r.Summary.Err == nil {
		t.Fatal("expected summary parse error")
	}
	if len(r.Log.Lines) != 3 {
		t.Fatalf("log probe must survive a broken summary: %#v", r.Log)
	}
	LogErrors(nil, r)

	var buf bytes.Buffer
	Render(report.New(&buf), r)
	out := buf.String()
	for _, want := range []string{
		"[INFO] No saved snapshots found",
		"[OK] Found log file: " + cfg.Paths.LogFile,
		"  line 1\n  line 2\n  line 3\n",
		"[FAIL] Failed to parse results:",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderSnapshotsAndSummary(t *testing.T) {
	var buf bytes.Buffer
	Render(report.New(&buf), Report{
		Snapshots: SnapshotProbe{Found: true, Total: 5, Recent: []string{"c.evo", "d.evo", "e.evo"}},
		Summary: SummaryProbe{
			Found:             true,
			TotalGenerations:  "10",
			BestFitness:       NotAvailable,
			CurrentPopulation: "50",
		},
	})
	out := buf.String()
	for _, want := range []string{
		"[OK] Found 5 saved snapshots:",
		"  - c.evo\n  - d.evo\n  - e.evo\n",
		"[INFO] No log file at",
		"  Generations: 10",
		"  Best Fitness: N/A",
		"  Population: 50",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderNoSummary(t *testing.T) {
	var buf bytes.Buffer
	Render(report.New(&buf), Report{})
	if !strings.Contains(buf.String(), "[INFO] No summary was produced") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
