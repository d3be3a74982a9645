// Package daemonctl drives the simulation daemon's lifecycle through the
// client executable.
//
// The Controller moves NotStarted -> Started -> Observed -> Stopped, one
// synchronous client invocation per transition. A failed start is the only
// fatal outcome; a failed status never prevents the stop request, and stop
// is attempted exactly once. The interactive branch attaches the operator's
// terminal to the daemon's own command loop until it exits.
package daemonctl
