// SPDX-License-Identifier: MPL-2.0

package hardhat

import (
	"fmt"
	"os"
	"path/filepath"
)

// RegisterFile is the framework bootstrap module preloaded into every child.
const RegisterFile = "register.js"

// RegisterPath returns the bootstrap module inside installDir.
func RegisterPath(installDir string) string {
	return filepath.Join(installDir, RegisterFile)
}

// InstallDir returns the directory holding the running executable, with
// symlinks resolved, which is where the bootstrap module ships.
func InstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
