// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"fmt"
)

// ErrLaunchFailed is the sentinel error wrapped by LaunchError.
var ErrLaunchFailed = errors.New("launch failed")

// LaunchError is returned when a child process could not be created.
// It wraps both ErrLaunchFailed and the spawn error, so errors.Is matches either.
type LaunchError struct {
	Script string
	Err    error
}

// Error implements the error interface.
func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch script %s: %v", e.Script, e.Err)
}

// Unwrap returns ErrLaunchFailed and the underlying cause.
func (e *LaunchError) Unwrap() []error { return []error{ErrLaunchFailed, e.Err} }
