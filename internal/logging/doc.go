// Package logging assembles structured slog loggers used across the evorun
// harness.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and defines the standardized attribute keys (component, run_id, step) so
// every package emits records with the same shape. A no-op logger is provided
// for tests and wiring code that cannot fail.
//
// Operator-facing progress lines are not logs; they go through package report.
package logging
