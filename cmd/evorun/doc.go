// Package main hosts the evorun CLI entrypoint and command graph.
//
// The Cobra command tree resolves the harness configuration once, builds the
// structured logger, and hands each invocation to an internal package: the
// full run to harness, single checks to preflight and artifacts, and one-shot
// daemon requests to daemonctl. Commands stay declarative; behavior belongs
// in internal/.
package main
