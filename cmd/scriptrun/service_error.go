// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/invowk/scriptrun/internal/hardhat"
	"github.com/invowk/scriptrun/internal/issue"
	"github.com/invowk/scriptrun/internal/process"
)

// issueStyle is the glamour style used for catalog entries on stderr.
const issueStyle = "auto"

// issueForError picks the catalog entry that explains err, or 0.
func issueForError(err error) issue.Id {
	switch {
	case errors.Is(err, process.ErrScriptNotFound):
		return issue.ScriptNotFoundId
	case errors.Is(err, process.ErrInterpreterNotFound):
		return issue.InterpreterNotFoundId
	case errors.Is(err, hardhat.ErrInvalidArgumentValue):
		return issue.InvalidFrameworkArgumentId
	default:
		return issue.LaunchFailedId
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors include their suggestions, and the chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError prints err followed by the catalog entry id, if any.
func renderError(stderr io.Writer, err error, id issue.Id, verbose bool) {
	fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(issueStyle)
	if renderErr != nil {
		log.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
		return
	}
	fmt.Fprint(stderr, rendered)
}
