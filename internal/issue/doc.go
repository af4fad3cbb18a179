// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved, and suggestions.
// The issue catalog holds Markdown guidance for the failures users hit most often,
// rendered for the terminal with glamour.
package issue
