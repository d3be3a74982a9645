// Package runner executes shell commands on behalf of the harness and turns
// every outcome into a Result value.
//
// A Runner never returns an error and never panics: a non-zero exit, a
// missing program, or a shell that cannot start all become Succeeded=false
// with diagnostic text in Stderr. Each call spawns exactly one child and
// blocks until it exits; there is no implicit timeout.
//
// Commands are shell strings. Use Command to quote an argument vector so a
// daemon request can be expressed as program plus arguments.
package runner
