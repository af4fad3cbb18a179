// SPDX-License-Identifier: MPL-2.0

package runargs

import "strings"

const (
	// InspectBreakPrefix is the debugger flag that pins a break-on-start port.
	InspectBreakPrefix = "--inspect-brk="
	// InspectFlag lets the interpreter pick a free debugger port.
	InspectFlag = "--inspect"
)

// FixDebuggerArguments returns a copy of args where every fixed-port
// break-on-start debugger flag is replaced by the port-agnostic --inspect.
// A child inheriting the parent's fixed port would fail to bind it.
func FixDebuggerArguments(args []string) []string {
	fixed := make([]string, len(args))
	for i, arg := range args {
		if strings.Contains(strings.ToLower(arg), InspectBreakPrefix) {
			fixed[i] = InspectFlag
			continue
		}
		fixed[i] = arg
	}
	return fixed
}
