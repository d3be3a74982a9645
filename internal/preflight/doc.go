// Package preflight verifies that the simulation executables are in place
// before the harness takes any stateful action.
//
// Checks run in a fixed order and stop at the first failure:
//   - the client executable exists at its configured path,
//   - the daemon executable exists at its configured path,
//   - the client answers a --version query.
//
// The structural checks are cheap gates: no process is invoked until both
// executables are known to exist.
package preflight
