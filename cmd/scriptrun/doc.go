// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the scriptrun CLI commands.
//
// The Cobra command tree is executed through fang. App is the composition root: command
// handlers receive it and reach configuration and the process spawner through its
// injected dependencies, so tests can replace either.
package cmd
