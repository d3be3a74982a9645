package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndListNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	runs := []Run{
		{ID: "run-1", StartedAt: base, FinishedAt: base.Add(7 * time.Second), FinalState: "stopped",
			PreflightPassed: true, ConfigWritten: true, DaemonStarted: true, StatusOK: true, StopOK: true,
			SnapshotCount: 2, Outcome: OutcomeOK},
		{ID: "run-2", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Second),
			FinalState: "not_started", Outcome: OutcomePreflightFailed, Detail: "client missing"},
	}
	for _, run := range runs {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "run-2" || got[1].ID != "run-1" {
		t.Fatalf("unexpected order: %#v", got)
	}
	first := got[1]
	if !first.PreflightPassed || !first.StopOK || first.SnapshotCount != 2 || first.Outcome != OutcomeOK {
		t.Fatalf("fields did not round trip: %#v", first)
	}
	if first.Duration() != 7*time.Second {
		t.Fatalf("unexpected duration: %s", first.Duration())
	}
	if got[0].Detail != "client missing" || got[0].PreflightPassed {
		t.Fatalf("unexpected failed run: %#v", got[0])
	}
}

func TestListLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		start := base.Add(time.Duration(i) * time.Minute)
		if err := store.Record(ctx, Run{ID: id, StartedAt: start, FinishedAt: start, Outcome: OutcomeOK}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected runs: %#v", got)
	}
}

func TestListOrdersRunsWithinOneSecond(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	second := time.Date(2026, 10, 1, 0, 0, 5, 0, time.UTC)

	for _, run := range []Run{
		{ID: "on-the-second", StartedAt: second, FinishedAt: second, Outcome: OutcomeOK},
		{ID: "half-past", StartedAt: second.Add(500 * time.Millisecond), FinishedAt: second.Add(time.Second), Outcome: OutcomeOK},
	} {
		if err := store.Record(ctx, run); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "half-past" {
		t.Fatalf("expected the later run first, got %#v", got)
	}
	if !got[0].StartedAt.Equal(second.Add(500 * time.Millisecond)) {
		t.Fatalf("start time did not round trip: %s", got[0].StartedAt)
	}
}

func TestRecordRequiresID(t *testing.T) {
	store := openTestStore(t)
	if err := store.Record(context.Background(), Run{}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Record(context.Background(), Run{ID: "kept", StartedAt: time.Now(), Outcome: OutcomeStartFailed}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Outcome != OutcomeStartFailed {
		t.Fatalf("unexpected runs after reopen: %#v", got)
	}
}

func TestSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
