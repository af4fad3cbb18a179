// SPDX-License-Identifier: MPL-2.0

// Package launcher runs a script in a child interpreter process and reports how it ended.
//
// A launch derives the child's runtime flags (see package runargs), overlays the caller's
// environment variables on the inherited environment, spawns exactly one child with the
// parent's standard streams, and settles a Run exactly once: with the child's ExitStatus
// when it terminates, or with a *LaunchError when it could not be started or observed.
// A non-zero exit or a signal termination is a normal outcome, not an error.
//
// Launches share no mutable state, so any number of them may run concurrently.
package launcher
