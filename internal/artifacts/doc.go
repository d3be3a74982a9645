// Package artifacts inspects what the simulation daemon leaves behind after a
// run: saved snapshots, its log file, and an optional JSON summary.
//
// Every probe is read-only and independent. A missing source is reported as
// not found rather than as an error, and a source that fails to read or parse
// never hides the others from the digest.
package artifacts
