// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/invowk/scriptrun/internal/process"
)

// renderDryRun prints the resolved child command without spawning it. Only
// the variables layered on top of the inherited environment are listed.
func renderDryRun(w io.Writer, cmd process.Command, extraEnv map[string]string) {
	fmt.Fprintln(w, TitleStyle.Render("Dry Run"))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Interpreter:"), cmd.Interpreter)
	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("Script:"), cmd.Script)
	if cmd.Dir != "" {
		fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render("WorkDir:"), cmd.Dir)
	}

	renderList(w, "Runtime args:", cmd.RuntimeArgs)
	renderList(w, "Script args:", cmd.ScriptArgs)

	if len(extraEnv) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, LabelStyle.Render("  Environment:"))
		for _, k := range slices.Sorted(maps.Keys(extraEnv)) {
			fmt.Fprintf(w, "    %s=%s\n", k, extraEnv[k])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("Command line:"), commandLine(cmd.Argv()))
	fmt.Fprintln(w)
}

func renderList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelStyle.Render("  "+label))
	for _, item := range items {
		fmt.Fprintf(w, "    %s\n", item)
	}
}

// commandLine joins argv for display, quoting elements that contain spaces.
func commandLine(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			quoted[i] = strconv.Quote(arg)
			continue
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
