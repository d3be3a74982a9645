package main

import (
	"strings"
	"testing"
	"time"

	"evorun/internal/history"
)

func TestRenderHistoryKeepsHeaderCase(t *testing.T) {
	started := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	out := renderHistory([]history.Run{{
		ID:            "0123456789abcdef",
		StartedAt:     started,
		FinishedAt:    started.Add(6 * time.Second),
		FinalState:    "stopped",
		StopOK:        true,
		SnapshotCount: 3,
		Outcome:       history.OutcomeOK,
	}})

	for _, want := range []string{"Run", "Outcome", "Snapshots", "01234567", "6s", "stopped", "yes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
	if strings.Contains(out, "OUTCOME") || strings.Contains(out, "0123456789") {
		t.Fatalf("unexpected header case or untrimmed id:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate kept %q", got)
	}
	if got := truncate("daemon start failed: config rejected", 10); got != "daemon st…" {
		t.Fatalf("truncate gave %q", got)
	}
}
