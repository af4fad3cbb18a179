// SPDX-License-Identifier: MPL-2.0

// Package process is the process-spawning capability used by the launcher.
//
// A Spawner creates a child interpreter process for a Command and hands back a Process
// handle. Spawn failures are launch errors; Process.Wait reports the child's termination
// as an ExitStatus. ExecSpawner is the os/exec implementation; tests substitute their own
// Spawner to observe the exact Command a launch produces.
package process
