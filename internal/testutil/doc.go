// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that fail fast on setup errors,
// reducing boilerplate around temporary scripts and environment variables.
package testutil
