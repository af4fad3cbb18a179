// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points the platform's user config location at dir and
// returns a cleanup function that restores the original value.
// Tests calling it must not run in parallel.
//
// Platform handling:
//   - Windows: Sets APPDATA
//   - macOS: Sets HOME (config lives under Library/Application Support)
//   - Linux/others: Sets XDG_CONFIG_HOME
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "APPDATA", dir)
	case "darwin":
		return MustSetenv(t, "HOME", dir)
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}

// ConfigHome returns the user config location SetConfigHome(dir) produces.
func ConfigHome(dir string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(dir, "Library", "Application Support")
	}
	return dir
}
