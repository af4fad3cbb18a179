// SPDX-License-Identifier: MPL-2.0

package runargs

import (
	"path/filepath"
	"slices"
	"strings"
)

const (
	// RequireFlag preloads a module in the interpreter before the entry script.
	RequireFlag = "--require"
	// RegisterModule is the transpilation hook with type checking.
	RegisterModule = "ts-node/register"
	// RegisterTranspileOnlyModule is the transpilation hook without type checking.
	RegisterTranspileOnlyModule = "ts-node/register/transpile-only"
)

var sourceExtensions = []string{".ts", ".tsx"}

type (
	// HostMode describes how the launching process itself is executing.
	HostMode struct {
		// RuntimeArgs are the interpreter flags the host was started with.
		RuntimeArgs []string
		// SourceMode is set when the launcher runs from uncompiled sources,
		// so every child needs the transpilation hook too.
		SourceMode bool
		// TranspileOnly selects the hook variant that skips type checking.
		TranspileOnly bool
	}
)

// HasRegisterHook reports whether the host already preloads a transpilation hook.
func (h HostMode) HasRegisterHook() bool {
	return slices.Contains(h.RuntimeArgs, RegisterModule) ||
		slices.Contains(h.RuntimeArgs, RegisterTranspileOnlyModule)
}

// IsTranspiledSource reports whether path names a source file that needs
// on-the-fly transpilation. The extension match is case-insensitive.
func IsTranspiledSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(sourceExtensions, ext)
}

// TranspilationArgs returns the loader flag pair needed to run scriptPath, or
// nil when no loader is needed. A host that already registered the hook never
// gets a second one, because the children inherit it through RuntimeArgs.
func TranspilationArgs(scriptPath string, host HostMode) []string {
	if host.HasRegisterHook() {
		return nil
	}
	if !host.SourceMode && !IsTranspiledSource(scriptPath) {
		return nil
	}

	module := RegisterModule
	if host.TranspileOnly {
		module = RegisterTranspileOnlyModule
	}
	return []string{RequireFlag, module}
}

// Effective builds the runtime flags for a child running scriptPath:
// the host's flags with the debugger fix-up applied, then the transpilation
// loader (if any), then the caller's extra flags.
func Effective(scriptPath string, host HostMode, extra []string) []string {
	args := FixDebuggerArguments(host.RuntimeArgs)
	args = append(args, TranspilationArgs(scriptPath, host)...)
	return append(args, extra...)
}
