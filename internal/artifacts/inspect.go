package artifacts

import (
	"log/slog"

	"evorun/internal/config"
	"evorun/internal/logging"
	"evorun/internal/report"
)

// Report merges the three probes for display.
type Report struct {
	Snapshots SnapshotProbe
	Log       LogProbe
	Summary   SummaryProbe
}

// Inspect runs every probe against the configured artifact locations.
func Inspect(cfg *config.Config) Report {
	return Report{
		Snapshots: ProbeSnapshots(cfg.Paths.SavesDir, cfg.Inspect.SnapshotSuffix, cfg.Inspect.SnapshotLimit),
		Log:       ProbeLog(cfg.Paths.LogFile, cfg.Inspect.LogLines),
		Summary:   ProbeSummary(cfg.Paths.SummaryFile),
	}
}

// LogErrors records probe failures on logger. Nothing here is fatal.
func LogErrors(logger *slog.Logger, r Report) {
	logger = logging.NewComponentLogger(logger, "inspect")
	for _, probe := range []struct {
		source string
		path   string
		err    error
	}{
		{"snapshots", r.Snapshots.Dir, r.Snapshots.Err},
		{"log", r.Log.Path, r.Log.Err},
		{"summary", r.Summary.Path, r.Summary.Err},
	} {
		if probe.err == nil {
			continue
		}
		logging.WarnWithContext(logger, "artifact probe failed", "artifact_probe_failed",
			"inspect the artifact manually",
			logging.String("source", probe.source),
			logging.String("path", probe.path),
			logging.Error(probe.err),
		)
	}
}

// Render prints the digest.
func Render(rep *report.Reporter, r Report) {
	rep.Section("Results")

	switch snaps := r.Snapshots; {
	case snaps.Err != nil:
		rep.Fail("Failed to list saved snapshots: %v", snaps.Err)
	case snaps.Total == 0:
		rep.Info("No saved snapshots found")
	default:
		rep.OK("Found %d saved snapshots:", snaps.Total)
		for _, name := range snaps.Recent {
			rep.Item("%s", name)
		}
	}

	switch logProbe := r.Log; {
	case logProbe.Err != nil:
		rep.Fail("Failed to read log: %v", logProbe.Err)
	case !logProbe.Found:
		rep.Info("No log file at %s", logProbe.Path)
	default:
		rep.OK("Found log file: %s", logProbe.Path)
		if len(logProbe.Lines) > 0 {
			rep.Info("Recent log entries:")
			for _, line := range logProbe.Lines {
				rep.Block(line)
			}
		}
	}

	switch summary := r.Summary; {
	case summary.Err != nil:
		rep.Fail("Failed to parse results: %v", summary.Err)
	case !summary.Found:
		rep.Info("No summary was produced")
	default:
		rep.OK("Evolution summary:")
		rep.Block("Generations: " + summary.TotalGenerations)
		rep.Block("Best Fitness: " + summary.BestFitness)
		rep.Block("Population: " + summary.CurrentPopulation)
	}
}
