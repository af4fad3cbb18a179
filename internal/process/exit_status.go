// SPDX-License-Identifier: MPL-2.0

package process

import (
	"fmt"
	"os"
	"strconv"
	"syscall"
)

// ExitStatus is how a child process terminated.
// When Signaled is true the child was killed by Signal and has no exit code.
type ExitStatus struct {
	Code     int
	Signaled bool
	Signal   os.Signal
}

// Exited returns the status of a child that exited normally with code.
func Exited(code int) ExitStatus {
	return ExitStatus{Code: code}
}

// Killed returns the status of a child terminated by sig.
func Killed(sig os.Signal) ExitStatus {
	return ExitStatus{Code: -1, Signaled: true, Signal: sig}
}

// ExitCode returns the exit code and true, or false when the child was
// terminated by a signal and therefore has no code.
func (s ExitStatus) ExitCode() (int, bool) {
	if s.Signaled {
		return 0, false
	}
	return s.Code, true
}

// Success reports a normal exit with code 0.
func (s ExitStatus) Success() bool { return !s.Signaled && s.Code == 0 }

// String renders the status the way it is logged.
func (s ExitStatus) String() string {
	if s.Signaled {
		if s.Signal != nil {
			return fmt.Sprintf("signal: %s", s.Signal)
		}
		return "signal"
	}
	return strconv.Itoa(s.Code)
}

// statusFromState converts a finished os.ProcessState into an ExitStatus.
func statusFromState(state *os.ProcessState) ExitStatus {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Killed(ws.Signal())
	}
	if code := state.ExitCode(); code >= 0 {
		return Exited(code)
	}
	return Killed(nil)
}
