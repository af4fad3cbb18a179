// SPDX-License-Identifier: MPL-2.0

// Package hardhat launches scripts inside the framework's runtime context.
//
// It composes the script launcher with two additions: a preload flag pair that loads the
// framework's register module (resolved relative to the install location) ahead of any
// caller flags, and HARDHAT_* environment variables derived from the framework arguments,
// which the caller's own variables override.
package hardhat
