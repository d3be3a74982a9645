// Package harness runs one complete exercise of the simulation daemon:
// preflight, configuration, the start/observe/stop sequence, an optional
// interactive hand-off, and artifact inspection.
//
// Transient files are released by a deferred cleanup that wraps every stage,
// so they disappear on success, on a reported failure, on a fatal error, and
// on panic. Only three conditions end a run with an error: a failed
// preflight, a rejected start, and an environment that cannot host the run
// (lock contention, an unwritable configuration). Everything else is reported
// to the operator and recorded in the run history.
package harness
